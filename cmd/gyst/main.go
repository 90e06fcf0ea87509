package main

import (
	"os"

	"github.com/dshills/gyst/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
