// Package errors provides the structured error type used across starpipe.
// Every failure carries a machine-readable code and the process exit code the
// CLI reports for it, so library callers and the command line agree on the
// failure taxonomy.
package errors
