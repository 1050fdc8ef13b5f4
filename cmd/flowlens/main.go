package main

import (
	"os"

	"github.com/mwaldron/flowlens/internal/infrastructure/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
