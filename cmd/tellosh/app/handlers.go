// handlers.go

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

package app

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	tello "github.com/SMerrony/tello-sdk"
)

func usage(c string) error {
	return errors.Errorf("usage: %s", c)
}

func parseFloats(args []string, names ...string) ([]float64, error) {
	if len(args) < len(names) {
		return nil, errors.Errorf("expected %s", strings.Join(names, " "))
	}
	vals := make([]float64, len(names))
	for i, n := range names {
		v, err := parseFinite(args[i])
		if err != nil {
			return nil, errors.Errorf("invalid %s: %s", n, args[i])
		}
		vals[i] = v
	}
	return vals, nil
}

// parseFinite accepts only ordinary numbers, strconv would also let through NaN and Inf.
func parseFinite(arg string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("%s is not a finite number", arg)
	}
	return v, nil
}

func parseInt(args []string, name string) (int, error) {
	if len(args) < 1 {
		return 0, errors.Errorf("expected %s", name)
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.Errorf("invalid %s: %s", name, args[0])
	}
	return v, nil
}

func cmdHelp(_ context.Context, s *Shell, _ []string) error {
	byCat := s.cmds.byCategory()
	for _, cat := range categoryOrder {
		fmt.Fprintf(s.out, "\n=== %s ===\n", strings.ToUpper(string(cat)))
		for _, c := range byCat[cat] {
			fmt.Fprintf(s.out, "  %-26s - %s\n", c.Usage, c.Help)
		}
	}
	fmt.Fprintln(s.out, "\nSeparate several commands with ';'")
	return nil
}

func cmdVersion(_ context.Context, s *Shell, _ []string) error {
	fmt.Fprintln(s.out, "tellosh - Tello SDK shell")
	fmt.Fprintf(s.out, "Version: %s\n", tello.TelloPackageVersion)
	return nil
}

func cmdInfo(ctx context.Context, s *Shell, args []string) error {
	fmt.Fprintln(s.out, "=== APPLICATION INFORMATION ===")
	cmdVersion(ctx, s, args)

	info, err := s.pilot.Info()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "\n=== DRONE INFORMATION ===")
	for _, row := range []struct{ label, query, val string }{
		{"SDK version", "sdk?", info.SDK},
		{"Serial number", "sn?", info.Serial},
		{"Hardware", "hardware?", info.Hardware},
		{"Firmware", "version?", info.Firmware},
		{"Battery", "battery?", info.Battery},
		{"WiFi SNR", "wifi?", info.WiFi},
		{"Speed", "speed?", info.Speed},
		{"Flight time", "time?", info.FlightTime},
	} {
		if qerr, ok := info.Errors[row.query]; ok {
			fmt.Fprintf(s.out, "  %-14s unavailable (%v)\n", row.label+":", qerr)
			continue
		}
		fmt.Fprintf(s.out, "  %-14s %s\n", row.label+":", row.val)
	}
	return nil
}

func cmdHistory(ctx context.Context, s *Shell, args []string) error {
	if s.history == nil {
		return errors.New("history is not available, the journal is disabled")
	}
	if len(args) > 0 && args[0] == "sessions" {
		return listSessions(ctx, s)
	}
	n := s.cfg.HistorySize
	if len(args) > 0 {
		v, err := parseInt(args, "count")
		if err != nil || v < 1 {
			return usage("history [n|sessions]")
		}
		n = v
	}
	entries, err := s.history.Recent(ctx, n)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(s.out, "No commands recorded yet")
		return nil
	}
	for _, e := range entries {
		result := e.Reply
		if e.Err != "" {
			result = e.Err
		}
		fmt.Fprintf(s.out, "  %-16s %-24s %-11s %s\n", humanize.Time(e.Started), e.Command, e.Outcome, result)
	}
	return nil
}

func listSessions(ctx context.Context, s *Shell) error {
	sessions, err := s.history.Sessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(s.out, "No sessions recorded yet")
		return nil
	}
	for _, ss := range sessions {
		fmt.Fprintf(s.out, "  %-16s %-36s %s\n", humanize.Time(ss.Started), ss.ID, ss.Drone)
	}
	return nil
}

func cmdRaw(_ context.Context, s *Shell, args []string) error {
	if len(args) == 0 {
		return usage("raw <sdk command>")
	}
	reply, err := s.pilot.Command(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Reply: %s\n", reply.Text())
	return nil
}

func cmdWait(ctx context.Context, s *Shell, args []string) error {
	if len(args) < 1 {
		return usage("wait <seconds>")
	}
	secs, err := parseFinite(args[0])
	if err != nil || secs < 0 {
		return errors.Errorf("invalid wait time: %s, please specify a number of seconds", args[0])
	}
	fmt.Fprintf(s.out, "Waiting for %g seconds...\n", secs)
	if err := s.sleep(ctx, time.Duration(secs*float64(time.Second))); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Wait completed")
	return nil
}

func cmdTakeoff(_ context.Context, s *Shell, args []string) error {
	if len(args) == 0 {
		if err := s.pilot.TakeOff(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Takeoff successful")
		return nil
	}
	h, err := parseFinite(args[0])
	if err != nil {
		fmt.Fprintln(s.out, "Warning: invalid height value, using default height (1m)")
		if err := s.pilot.TakeOff(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Takeoff successful")
		return nil
	}
	rep, err := s.pilot.TakeOffToHeight(h)
	if err != nil {
		return err
	}
	if rep.Warning != "" {
		fmt.Fprintf(s.out, "Warning: %s\n", rep.Warning)
	}
	fmt.Fprintf(s.out, "Takeoff successful, height %gm\n", rep.Height)
	return nil
}

func cmdLand(_ context.Context, s *Shell, _ []string) error {
	if err := s.pilot.Land(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Landing successful")
	return nil
}

func cmdState(_ context.Context, s *Shell, _ []string) error {
	snap, ok := s.pilot.State()
	if !ok {
		fmt.Fprintln(s.out, "No telemetry received yet")
		return nil
	}
	fmt.Fprintf(s.out, "=== DRONE STATE (received %s) ===\n", humanize.Time(snap.Received))
	for _, g := range snap.Groups() {
		fmt.Fprintf(s.out, "\n%s:\n", g.Name)
		for _, f := range g.Fields {
			fmt.Fprintf(s.out, "  %s\n", f)
		}
	}
	return nil
}

func cmdMove(dir string) handler {
	return func(_ context.Context, s *Shell, args []string) error {
		cm, err := parseInt(args, "distance")
		if err != nil {
			return err
		}
		if err := s.pilot.Move(tello.Direction(dir), cm); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Moved %s %dcm\n", dir, cm)
		return nil
	}
}

func cmdRotate(clockwise bool) handler {
	return func(_ context.Context, s *Shell, args []string) error {
		deg, err := parseInt(args, "degrees")
		if err != nil {
			return err
		}
		sense := "counter-clockwise"
		if clockwise {
			sense = "clockwise"
			err = s.pilot.Clockwise(deg)
		} else {
			err = s.pilot.Anticlockwise(deg)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Rotated %s %d°\n", sense, deg)
		return nil
	}
}

func cmdPhoto(_ context.Context, s *Shell, _ []string) error {
	if err := s.pilot.TakePhoto(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Photo taken successfully")
	return nil
}

func cmdVideo(_ context.Context, s *Shell, args []string) error {
	if len(args) < 1 {
		return usage("video start|stop")
	}
	switch args[0] {
	case "start":
		if err := s.pilot.StartVideo(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Video stream started")
	case "stop":
		if err := s.pilot.StopVideo(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Video stream stopped")
	default:
		return errors.Errorf("unknown video command: %s", args[0])
	}
	return nil
}

func cmdMedia(_ context.Context, s *Shell, args []string) error {
	if len(args) < 1 {
		return usage("media list|download <file>|direct <file>|delete <file>|deleteall|path <dir>")
	}
	sub, rest := args[0], args[1:]
	needArg := func(what string) (string, error) {
		if len(rest) < 1 {
			return "", errors.Errorf("please specify a %s", what)
		}
		return rest[0], nil
	}

	switch sub {
	case "list":
		files, err := s.pilot.ListMedia()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Media files on drone (%s):\n", humanize.Comma(int64(len(files))))
		for _, f := range files {
			fmt.Fprintf(s.out, "  %s\n", f)
		}
	case "download", "direct":
		name, err := needArg("file name")
		if err != nil {
			return err
		}
		transfer := s.pilot.DownloadMedia
		if sub == "direct" {
			transfer = s.pilot.DirectTransfer
		}
		dest, err := transfer(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Transfer of %s requested, destination %s\n", name, dest)
	case "delete":
		name, err := needArg("file name")
		if err != nil {
			return err
		}
		if err := s.pilot.DeleteMedia(name); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Deleted %s\n", name)
	case "deleteall":
		if err := s.pilot.DeleteAllMedia(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Deleted all media")
	case "path":
		dir, err := needArg("directory")
		if err != nil {
			return err
		}
		if err := s.pilot.SetDownloadPath(dir); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Download path set to: %s\n", dir)
	default:
		return errors.Errorf("unknown media command: %s", sub)
	}
	return nil
}

func cmdSetPosition(_ context.Context, s *Shell, args []string) error {
	v, err := parseFloats(args, "x", "y", "z")
	if err != nil {
		return err
	}
	if err := s.pilot.SetPosition(v[0], v[1], v[2]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Drone position set to (%g, %g, %g)\n", v[0], v[1], v[2])
	return nil
}

func cmdGetPosition(_ context.Context, s *Shell, _ []string) error {
	p := s.pilot.Pose()
	fmt.Fprintf(s.out, "Current drone position: (%.2f, %.2f, %.2f), heading %.1f°\n", p.X, p.Y, p.Z, p.Heading)
	return nil
}

func cmdCamera(toward bool) handler {
	return func(_ context.Context, s *Shell, args []string) error {
		v, err := parseFloats(args, "x", "y")
		if err != nil {
			return err
		}
		aim, what := s.pilot.PointCameraAt, "towards"
		if !toward {
			aim, what = s.pilot.PointCameraAwayFrom, "away from"
		}
		rot, err := aim(v[0], v[1])
		if err != nil {
			return err
		}
		if rot.IsZero() {
			fmt.Fprintf(s.out, "Camera already pointed %s (%g, %g)\n", what, v[0], v[1])
			return nil
		}
		sense := "counter-clockwise"
		if rot.Clockwise {
			sense = "clockwise"
		}
		fmt.Fprintf(s.out, "Camera pointed %s center point (%g, %g), turned %g° %s\n", what, v[0], v[1], rot.Degrees, sense)
		return nil
	}
}
