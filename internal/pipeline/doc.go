// Package pipeline orchestrates a generation request end to end: binding
// derivation, template rendering, PDF conversion, archival rewrite, and the
// conformance gate. Each request runs under a fresh UUID with its own staging
// and output directories, so concurrent requests never share files.
package pipeline
