package main

import (
	"os"

	"github.com/rftools/ctx/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
