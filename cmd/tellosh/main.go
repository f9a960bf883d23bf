// main.go

// Copyright (C) 2018  Steve Merrony

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// tellosh is an interactive shell for flying a Tello drone with the text SDK.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	tello "github.com/SMerrony/tello-sdk"
	"github.com/SMerrony/tello-sdk/cmd/tellosh/app"
	"github.com/SMerrony/tello-sdk/config"
	"github.com/SMerrony/tello-sdk/journal"
)

func main() {
	var configPath string
	var envPath string
	var noJournal bool
	flag.StringVar(&configPath, "config", "tellosh.yaml", "path to the YAML configuration")
	flag.StringVar(&envPath, "env", ".env", "optional environment file")
	flag.BoolVar(&noJournal, "no-journal", false, "do not record the flight journal")
	flag.Parse()

	if err := run(configPath, envPath, noJournal); err != nil {
		fmt.Fprintf(os.Stderr, "tellosh: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envPath string, noJournal bool) error {
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logrus.New()
	if err := configureLogging(log, cfg.Log); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	options := []tello.Option{
		tello.WithDroneAddr(cfg.Drone.Address),
		tello.WithPorts(cfg.Drone.CommandPort, cfg.Drone.LocalPort, cfg.Drone.TelemetryPort, cfg.Drone.FilePort),
		tello.WithCommandTimeout(cfg.Timeouts.Command.Duration()),
		tello.WithTelemetryTimeout(cfg.Timeouts.Telemetry.Duration()),
		tello.WithDownloadPath(cfg.Media.DownloadPath),
		tello.WithLogger(log),
	}
	var shellOptions []app.Option
	if cfg.Journal.Enabled && !noJournal {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer j.Close()
		id, err := j.StartSession(ctx, cfg.Drone.Address)
		if err != nil {
			return err
		}
		log.WithField("session", id).Debug("journal session started")
		options = append(options, tello.WithJournal(j))
		shellOptions = append(shellOptions, app.WithHistory(j))
	}

	drone := tello.New(options...)
	fmt.Printf("Connecting to Tello at %s...\n", cfg.Drone.Address)
	if err := drone.Connect(ctx); err != nil {
		return err
	}
	defer drone.Disconnect()
	fmt.Println("Connected, drone is in SDK mode")

	shellOptions = append(shellOptions, app.WithConfig(cfg.Shell), app.WithLogger(log))
	sh := app.NewShell(drone, os.Stdout, shellOptions...)
	if err := sh.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func configureLogging(log *logrus.Logger, cfg config.LogConfig) error {
	lvl, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
	if cfg.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
