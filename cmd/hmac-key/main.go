// Package main prints a fresh ZIWEI_AUTH_TOKEN_KEY.
package main

import (
	"flag"
	"os"

	"github.com/louisbranch/ziwei/internal/platform/config"
	"github.com/louisbranch/ziwei/internal/tools/hmackey"
)

func main() {
	cfg, err := hmackey.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exit("parse flags", err)
	}
	if err := hmackey.Run(cfg, os.Stdout, nil); err != nil {
		config.Exit("generate key", err)
	}
}
