// Package bootstrap turns a freshly provisioned host into a running
// application host.
//
// A bootstrap is a fixed, ordered list of [Step] values built from a
// config.Plan by [BuildSteps]:
//
//  1. refresh the OS package index
//  2. install a source-control client and a JavaScript runtime
//  3. clone the application repository into the deploy path, replacing
//     any prior copy
//  4. install the application's dependencies from its manifest
//  5. launch the entry point in the foreground with IP and PORT exported
//
// [Runner] executes the steps strictly in order. The first failing step
// ends the run unless the plan marks it continue_on_error. There are no
// retries and no rollback.
//
// [RenderScript] produces the same sequence as a bash script for hosts
// that bootstrap through cloud-init user data instead of the appboot
// binary.
package bootstrap
