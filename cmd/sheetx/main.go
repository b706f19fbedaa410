// Command sheetx runs the upload and chart pipeline from the command line:
// it lists sheets, extracts ranges, parses delimited text, shapes rows into a
// chart config and queries the schools dataset. Output is JSON on stdout.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
