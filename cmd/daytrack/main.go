package main

import (
	"os"

	"github.com/mzaikin/daytrack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
