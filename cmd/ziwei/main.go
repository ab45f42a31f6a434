// Package main prints a Zi Wei Dou Shu natal chart.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	ziweicmd "github.com/louisbranch/ziwei/internal/cmd/ziwei"
	entrypoint "github.com/louisbranch/ziwei/internal/platform/cmd"
	"github.com/louisbranch/ziwei/internal/platform/config"
)

func main() {
	cfg, err := ziweicmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exit("parse flags", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceZiwei))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ziweicmd.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exit("ziwei", err)
	}
}
