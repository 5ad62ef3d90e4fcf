// Package main provides the entry point for the lifeos CLI.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
