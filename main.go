package main

import (
	"os"

	"github.com/gkwa/noblenewtonia/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
