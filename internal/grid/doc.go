// Package grid generates the dynamic table rows spliced into templates.
//
// Two layout families exist: plain tables, where a set of shared columns may
// be emitted once on row 1 spanning every generated row, and calendar grids,
// where twelve physical header columns carry month labels whose step doubles
// for a 24-month span. The generator is pure: it produces row values with
// embedded placeholder tokens and never touches storage or documents.
package grid
