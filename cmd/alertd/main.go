package main

import (
	"energymon/internal/di"
	"energymon/internal/structures"
	"flag"
	"fmt"
	"os"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the yaml config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "log to console at debug level")
	flag.Parse()

	_, cleanup, err := di.InitApp(flags)
	if cleanup != nil {
		cleanup()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "alertd: %s\n", err)
		os.Exit(1)
	}
}
