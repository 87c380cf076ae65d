// Package constant holds shared literals: telemetry attribute keys and the
// environment variable names that make up the external configuration contract.
//
// Keep this package free of runtime behavior.
package constant
