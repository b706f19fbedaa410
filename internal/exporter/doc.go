// Package exporter writes header-keyed records back out as delimited text.
//
// The header row is the union of record keys in first-seen order, so rows
// extracted from a spreadsheet round-trip to a CSV with the same column
// order. Cells missing from a record are written empty. Values use their
// canonical text form: numbers without trailing zeros, dates as RFC 3339.
package exporter
