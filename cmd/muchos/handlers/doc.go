// Package handlers implements the logic behind the muchos commands.
//
// Dependencies that touch the outside world (configuration files, the
// proxy transport, the tarball bucket, terminal prompts) are created
// through package-level factory variables so tests can replace them.
package handlers
