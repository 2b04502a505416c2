package main

import (
	"os"

	"github.com/osse101/xpscale/cmd/xpctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
