// Package services defines shared utilities consumed by the document pipeline
// stages and external tool integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that tag failures with the
//     pipeline error taxonomy (grid spec, token, binding, conversion, timeout).
//   - Context helpers that stamp request identifiers and stage names for
//     logging and tracing.
//   - The Transient classifier that decides which conversion failures earn a
//     retry.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability, retries) stays uniform across stages.
package services
