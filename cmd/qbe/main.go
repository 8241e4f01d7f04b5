// Package main provides the qbe binary: catalog loading, relationship
// graph inspection, join-tree and suggestion discovery, database
// introspection and constants generation.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
