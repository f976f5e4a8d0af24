// Command sigscan runs the analysis engine over recorded instrument
// captures.
//
// A capture is a CSV or whitespace-free two-column text file of
// time,value rows. Time is either seconds or an ISO-8601 timestamp; a
// non-numeric first row is treated as a header and lines starting with #
// are ignored. "-" reads standard input.
//
// Usage:
//
//	sigscan analyze [--json] FILE...
//	sigscan spectrum [--size 1024] [--window hann] [--overlap 0.5] [--scale magnitude] [--welch] FILE
//	sigscan decimate --rate 100 FILE
//	sigscan windows [--size 1024] [--periodic]
//	sigscan generate --shape sine --freq 50 --rate 1000 -n 2000
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
