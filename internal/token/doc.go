// Package token defines the placeholder syntax used inside templates and the
// rules for resolving a placeholder to a value.
//
// A token is an identifier wrapped in double braces, for example
// {{table_row3}} or {{cost_per_unit}}. The Scanner yields token names lazily
// in a single pass; nested or unterminated delimiters are scanning errors, not
// silently ignored. Resolve implements the lenient/strict lookup contract:
// unbound tokens become empty strings unless strict mode is requested.
package token
