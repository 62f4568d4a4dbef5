// Package convert drives the external document tooling: LibreOffice in
// headless mode for DOCX-to-PDF conversion and Ghostscript for rewriting a
// converted PDF into an archival PDF/A artifact. Both run as subprocesses
// under a caller-supplied context; the pipeline owns timeouts and retries.
package convert
