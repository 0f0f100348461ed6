// Command listdemo shows a paged feed through the list adapter, either in an
// interactive terminal list or as a headless dump.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/listadapter/cmd/listdemo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
