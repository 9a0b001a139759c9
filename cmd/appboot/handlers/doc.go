// Package handlers implements the business logic behind each CLI command.
//
// Handlers receive parsed arguments from the commands package and read the
// logger from the context. External effects go through package-level
// factory variables so tests can replace them.
package handlers
