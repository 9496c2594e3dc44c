// Command dci inspects and converts tables kept in a dci table store.
//
//	dci --dir data ls
//	dci --dir data import orders orders.csv --type qty=Int
//	dci --dir data dump orders --format json
//	dci --dir data convert orders --compression zstd
package main

import (
	"fmt"
	"os"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
