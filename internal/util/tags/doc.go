// Package tags provides consistent tagging for cloud resources.
//
// Every resource created in one provisioning run carries the same ID tag,
// so all of a run's resources can be found and cleaned up together.
package tags
