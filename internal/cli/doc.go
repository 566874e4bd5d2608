// Package cli implements the hubuser command: it parses flags, loads
// configuration, picks the remote or direct provisioner and reports the
// outcome.
//
// Usage:
//
//	hubuser (-email E | -phone P) -username U [-password P]
//	        [-hub-url URL | -db-url DSN] [-migrate] [-timeout 30s]
//	        [-c config.json] [-log-level warn]
//
// A summary goes to stdout on success and the process exits 0. Any failure
// prints one line to stderr and exits 1.
package cli
