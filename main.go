package main

import (
	"os"

	"github.com/voxgate/voxgate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
