package main

import (
	"context"
	"energymon/internal/di"
	"energymon/internal/structures"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the yaml config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "log to console at debug level")
	flag.BoolVar(&flags.SkipBackup, "skip-backup", false, "do not snapshot the source tree before migrating")
	flag.Parse()

	job, cleanup, err := di.InitMigration(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %s\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	report := job.Run(ctx)
	stop()
	cleanup()

	os.Exit(report.ExitCode())
}
