// Package config defines application settings used by the SOS server and
// provides helpers to load, validate and save them in YAML format.
//
// Secrets such as the SMTP sender password are taken from the environment
// (optionally seeded from a .env file) so they never land in the YAML file.
package config
