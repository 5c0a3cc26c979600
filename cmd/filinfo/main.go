// Command filinfo prints header fields, frequency and time axes, power data
// and spectrum statistics of SIGPROC filterbank files.
//
// Usage:
//
//	filinfo [flags] <command> <file.fil>
//
// Examples:
//
//	filinfo header obs.fil
//	filinfo range obs.fil
//	filinfo fs --format json obs.fil
//	filinfo data --db obs.fil
//	filinfo stats -v obs.fil
//	filinfo --config filinfo.yaml ts obs.fil
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", describe(err))
		os.Exit(1)
	}
}
