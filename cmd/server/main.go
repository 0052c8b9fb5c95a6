package main

import (
	"os"

	"github.com/DoyleJ11/volleyball-arena/internal/cli"
)

func main() {
	if err := cli.RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
