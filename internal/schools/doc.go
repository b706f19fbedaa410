// Package schools filters the bundled schools dataset for the map view.
//
// The dataset is a CSV file with one header row. Rows without coordinates are
// never returned. Filters arrive as query text and are parsed leniently: bad
// numbers fall back to the documented defaults.
package schools
