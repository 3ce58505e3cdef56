// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/depth_computer/internal/app"
	"github.com/relabs-tech/depth_computer/internal/config"
)

func main() {
	configPath := flag.String("config", "depth_config.txt", "path to the configuration file")
	flag.Parse()

	log.Println("starting depth-computer MS5803 probe")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunProbe(ctx); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
