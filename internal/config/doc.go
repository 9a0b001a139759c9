// Package config defines the bootstrap plan model shared by every appboot
// subsystem.
//
// A [Plan] describes one application host: which package manager to use,
// which repository to clone and where, how to install its dependencies,
// how to launch it, and (for `appboot provision`) the cloud resources to
// create. Plans are loaded from YAML with [LoadFile], which applies
// defaults and validates the result.
//
// The listen address of the launched application is not part of the
// YAML-only model: [LoadListen] resolves it from the environment (IP,
// PORT), then from the plan, then from built-in defaults.
package config
