// Package s3 stores run reports in Amazon S3 or an S3-compatible object
// store.
//
// Credentials come from the default AWS chain unless a static key pair is
// given. Reports are written as JSON under reports/<plan>/<run-id>.json.
package s3
