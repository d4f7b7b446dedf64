package main

import (
	"os"

	"github.com/symfony-cli/console"

	"github.com/kbukum/datafixture/version"
)

func main() {
	info := version.Get()
	app := &console.Application{
		Name:      "datafixture",
		Usage:     "Load data fixtures into a relational database",
		Version:   info.Short(),
		BuildDate: info.BuildDate(),
		Commands:  commands(),
	}
	app.Run(os.Args)
}
