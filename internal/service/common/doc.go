// Package common holds helpers shared by several services.
//
// It provides utilities to detect the current system actor
// (hostname/username) for audit logging of trigger origins.
package common
