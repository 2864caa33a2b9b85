// Package services contains the application services behind the CLI
// commands: account flows that drive the session coordinator, and resource
// operations that authenticate with the coordinator's credential.
package services
