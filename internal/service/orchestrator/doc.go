// Package orchestrator runs the SOS alert state machine.
//
// One cycle at a time: a trigger is rejected while another cycle is in
// flight, and the busy flag clears only when the cycle reaches a terminal
// status. The location arrives asynchronously, paired to its trigger by a
// one-time correlation key; once a valid sample is in, the pipeline runs
// reverse geocoding and the nearest-service searches concurrently, composes
// the alert body and performs a single dispatch attempt.
package orchestrator
