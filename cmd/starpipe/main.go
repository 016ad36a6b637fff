package main

import (
	"os"

	"github.com/kbukum/starpipe/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
