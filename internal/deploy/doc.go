// Package deploy copies an application directory to a remote host and
// starts it there over SSH.
//
// The private key is tightened to mode 0600 before any connection is
// attempted. The copy runs in the background and is waited on before the
// start command runs in the foreground, so the application never starts
// against a partial tree.
package deploy
