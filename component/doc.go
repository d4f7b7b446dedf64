// Package component defines the lifecycle interface shared by the database
// connection and the telemetry exporters, and a Registry that starts them
// in registration order and stops them in reverse.
package component
