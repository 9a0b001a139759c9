// Package ssh provides an SSH client for running commands on, and copying
// directories to, a freshly provisioned host.
//
// It backs `appboot deploy`: the application directory is uploaded over
// SFTP, then the start command runs remotely with its output streamed to
// the local terminal. Connections are retried because a new instance
// usually accepts TCP before sshd is ready.
package ssh
