// Package cli implements the interactive account CLI: a small REPL over the
// session controller with commands for registration, login/logout, profile
// inspection and updates, token rotation and account deletion.
//
// Passwords are read without terminal echo and wiped from memory after use.
package cli
