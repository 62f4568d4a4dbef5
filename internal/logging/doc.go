// Package logging constructs the slog loggers used across docforge.
//
// Two output formats are supported: a console handler that prints one line per
// record with a component prefix and key=value attributes, and a JSON handler
// for machine consumption. NewFromConfig wires the configured level, format,
// and log file; FromContext stamps request identifiers and stage names onto a
// logger so pipeline stages share correlation attributes.
package logging
