// shell.go

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

// Package app is the interactive front end of tellosh: it reads command lines,
// dispatches them to a Pilot and prints the results.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	tello "github.com/SMerrony/tello-sdk"
	"github.com/SMerrony/tello-sdk/config"
	"github.com/SMerrony/tello-sdk/journal"
)

const prompt = "tello> "

// Pilot is the part of *tello.Tello the shell drives.
type Pilot interface {
	TakeOff() error
	TakeOffToHeight(h float64) (tello.TakeoffReport, error)
	Land() error
	Move(dir tello.Direction, cm int) error
	Clockwise(deg int) error
	Anticlockwise(deg int) error
	State() (tello.Snapshot, bool)
	Info() (tello.DroneInfo, error)
	TakePhoto() error
	StartVideo() error
	StopVideo() error
	ListMedia() ([]string, error)
	DownloadMedia(name string) (string, error)
	DirectTransfer(name string) (string, error)
	DeleteMedia(name string) error
	DeleteAllMedia() error
	SetDownloadPath(path string) error
	SetPosition(x, y, z float64) error
	Pose() tello.Pose
	PointCameraAt(x, y float64) (tello.Rotation, error)
	PointCameraAwayFrom(x, y float64) (tello.Rotation, error)
	Command(text string) (tello.Reply, error)
}

// History supplies past exchanges and sessions for the history command.
type History interface {
	Recent(ctx context.Context, n int) ([]journal.Entry, error)
	Sessions(ctx context.Context) ([]journal.Session, error)
}

// Shell reads command lines and runs them against a Pilot.
type Shell struct {
	pilot   Pilot
	out     io.Writer
	log     logrus.FieldLogger
	cfg     config.ShellConfig
	history History
	cmds    *registry
	sleep   func(ctx context.Context, d time.Duration) error
}

// Option configures a Shell.
type Option func(*Shell)

// WithConfig sets the settle delays and history size.
func WithConfig(cfg config.ShellConfig) Option {
	return func(s *Shell) { s.cfg = cfg }
}

// WithHistory enables the history command.
func WithHistory(h History) Option {
	return func(s *Shell) { s.history = h }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Shell) { s.log = log }
}

// NewShell returns a shell driving p which prints to out.
func NewShell(p Pilot, out io.Writer, options ...Option) *Shell {
	s := &Shell{
		pilot: p,
		out:   out,
		log:   logrus.StandardLogger(),
		cfg:   config.DefaultConfig().Shell,
		cmds:  newRegistry(builtinCommands()),
		sleep: sleepContext,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Run reads lines from in until EOF, "exit" or ctx is cancelled.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "Type 'help' for a list of commands")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			break
		}
		quit, err := s.ExecLine(ctx, scanner.Text())
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
	fmt.Fprintln(s.out)
	return scanner.Err()
}

// ExecLine runs each semicolon-separated command of line in turn.
// quit is true once "exit" is seen; err is only set if ctx ended.
func (s *Shell) ExecLine(ctx context.Context, line string) (quit bool, err error) {
	for _, part := range strings.Split(line, ";") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		verb, args := strings.ToLower(fields[0]), fields[1:]

		c, ok := s.cmds.lookup(verb)
		if !ok {
			fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for a list)\n", verb)
			continue
		}
		if c.run == nil { // exit
			fmt.Fprintln(s.out, "Exiting Tello Control...")
			return true, nil
		}

		s.log.WithFields(logrus.Fields{"verb": verb, "args": args}).Debug("shell command")
		if err := c.run(ctx, s, args); err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			fmt.Fprintf(s.out, "Error executing %s: %v\n", verb, err)
			continue
		}

		if c.NoSettle {
			continue
		}
		if d := s.cfg.Delay(c.Name); d > 0 {
			fmt.Fprintf(s.out, "Waiting for command completion (%v)...\n", d)
			if err := s.sleep(ctx, d); err != nil {
				return false, err
			}
		}
	}
	return false, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
