// Package domain holds the shared vocabulary of the lockstep harness:
// reporting policies, exit classification, lifecycle events and the
// sentinel errors exchanged between the driver API and its adapters.
//
// The package has no dependencies so that adapters (metrics collectors,
// scenario scripts, CLIs) can consume harness events without importing
// the harness itself.
package domain
