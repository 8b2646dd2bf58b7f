package main

import (
	"os"

	"campusevents/cmd/campusctl/commands"
)

var version = "dev"

func main() {
	commands.SetVersion(version)
	// Errors are printed by the commands themselves.
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
