// Package client drives the SOS server's HTTP API from the command line:
// it triggers an alert cycle, deposits a location result under the cycle's
// correlation key, and polls the status until the cycle is terminal.
//
// This is the phone-less path through the pipeline, used for desk panic
// buttons and for exercising a deployment end to end.
package client
