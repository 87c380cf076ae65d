// Package opentelemetry holds small span helpers shared by the connectors.
package opentelemetry
