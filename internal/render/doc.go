// Package render turns a template into a filled working document.
//
// Rendering happens in two passes over the document XML: the dynamic table
// region marked by {{table_body}} is replaced with rows from the grid
// generator, then every placeholder token — including the freshly spliced row
// tokens — is resolved against the binding set and substituted in place. The
// template is read-only; the result is always a new package on disk.
package render
