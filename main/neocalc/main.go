package main

import (
	"os"

	"github.com/machbase/neo-calc/mods/cli"
)

func main() {
	os.Exit(cli.Main())
}
