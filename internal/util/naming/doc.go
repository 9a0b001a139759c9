// Package naming provides consistent names for the cloud resources created
// for an application.
//
// Names follow the pattern {app}-{type}. Subnets carry a one-based zone
// index and images a short run ID suffix.
package naming
