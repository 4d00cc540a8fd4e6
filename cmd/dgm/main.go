// Command dgm runs pairwise graphical-model inference demos.
package main

import (
	"os"

	"github.com/katalvlaran/dgm/cmd/dgm/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
