package main

import (
	"os"

	"github.com/closekit-dev/closekit/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
