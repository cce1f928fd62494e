package main

import (
	"os"

	"github.com/conneroisu/projectcard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
