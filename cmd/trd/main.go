package main

import (
	"flag"
	"fmt"
	"os"
	"trd/internal/di"
	"trd/internal/structures"
)

func main() {
	var flags structures.CliFlags
	flag.StringVar(&flags.ConfigPath, "config", "config/config.yaml", "path to the YAML config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "also log to stdout")
	flag.Parse()

	app, cleanup, err := di.InitApp(&flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %s\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "run: %s\n", err)
		cleanup()
		os.Exit(1)
	}
}
