// Command docforge renders document templates, converts them to PDF, and
// optionally rewrites them to an archival profile gated on external
// conformance validation.
package main
