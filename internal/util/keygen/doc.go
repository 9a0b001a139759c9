// Package keygen manages private key files.
//
// Private key files must not be readable by group or others: OpenSSH
// refuses to use them otherwise. [WritePrivateKey] creates files with mode
// 0600 and [RestrictPermissions] tightens an existing file to 0600.
package keygen
