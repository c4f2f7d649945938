// Package main entry point for application
package main

import (
	"os"

	"github.com/Heprex/automation/cli/cmd"
	"github.com/Heprex/automation/utils/log"
)

func main() {
	defer log.Flush()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
