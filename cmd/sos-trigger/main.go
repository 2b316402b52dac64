package main

import "github.com/dhivyapriya/sos-guardian/cmd/sos-trigger/cmd"

func main() {
	cmd.Execute()
}
