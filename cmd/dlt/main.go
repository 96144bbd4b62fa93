// Package main is the entry point for the dlt data-loading pipeline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/dlt-go/dlt/cmd/dlt/cmd"
)

func main() {
	if err := cmd.New().Root().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dlt: %v\n", err)
		os.Exit(1)
	}
}
