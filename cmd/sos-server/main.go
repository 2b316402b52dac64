package main

import "github.com/dhivyapriya/sos-guardian/cmd/sos-server/cmd"

func main() {
	cmd.Execute()
}
