// Package validate gates archival artifacts behind an external conformance
// validator. Only exit codes speak: zero is a pass, anything else is a fail
// with the validator's own output preserved as the reason.
package validate
