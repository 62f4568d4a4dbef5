// Package history persists generation request outcomes in a SQLite database
// so past runs, their artifacts, and their validation verdicts can be listed
// after the fact.
package history
