// shell_test.go

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
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tello "github.com/SMerrony/tello-sdk"
	"github.com/SMerrony/tello-sdk/config"
	"github.com/SMerrony/tello-sdk/journal"
)

// Shell must be able to drive the real thing.
var _ Pilot = (*tello.Tello)(nil)
var _ History = (*journal.Journal)(nil)

// fakePilot records calls as SDK-like strings.
type fakePilot struct {
	calls []string
	fail  map[string]error
	pose  tello.Pose
	snap  *tello.Snapshot
	files []string
	info  tello.DroneInfo
}

func (p *fakePilot) record(format string, args ...interface{}) error {
	c := fmt.Sprintf(format, args...)
	p.calls = append(p.calls, c)
	return p.fail[c]
}

func (p *fakePilot) TakeOff() error { return p.record("takeoff") }
func (p *fakePilot) TakeOffToHeight(h float64) (tello.TakeoffReport, error) {
	rep := tello.TakeoffReport{Height: h}
	if h > 8 {
		rep = tello.TakeoffReport{Height: 1, Warning: "too high"}
	}
	return rep, p.record("takeoff %g", h)
}
func (p *fakePilot) Land() error { return p.record("land") }
func (p *fakePilot) Move(dir tello.Direction, cm int) error {
	return p.record("%s %d", dir, cm)
}
func (p *fakePilot) Clockwise(deg int) error     { return p.record("cw %d", deg) }
func (p *fakePilot) Anticlockwise(deg int) error { return p.record("ccw %d", deg) }
func (p *fakePilot) State() (tello.Snapshot, bool) {
	if p.snap == nil {
		return tello.Snapshot{}, false
	}
	return *p.snap, true
}
func (p *fakePilot) Info() (tello.DroneInfo, error) { return p.info, p.record("info") }
func (p *fakePilot) TakePhoto() error                { return p.record("photo") }
func (p *fakePilot) StartVideo() error               { return p.record("streamon") }
func (p *fakePilot) StopVideo() error                { return p.record("streamoff") }
func (p *fakePilot) ListMedia() ([]string, error)    { return p.files, p.record("ls") }
func (p *fakePilot) DownloadMedia(name string) (string, error) {
	return "media/" + name, p.record("download %s", name)
}
func (p *fakePilot) DirectTransfer(name string) (string, error) {
	return "media/" + name, p.record("direct_transfer %s", name)
}
func (p *fakePilot) DeleteMedia(name string) error     { return p.record("rm %s", name) }
func (p *fakePilot) DeleteAllMedia() error             { return p.record("rmall") }
func (p *fakePilot) SetDownloadPath(path string) error { return p.record("path %s", path) }
func (p *fakePilot) SetPosition(x, y, z float64) error {
	p.pose.X, p.pose.Y, p.pose.Z = x, y, z
	return p.record("position %g %g %g", x, y, z)
}
func (p *fakePilot) Pose() tello.Pose { return p.pose }
func (p *fakePilot) PointCameraAt(x, y float64) (tello.Rotation, error) {
	return tello.Rotation{Degrees: 90, Clockwise: true}, p.record("to %g %g", x, y)
}
func (p *fakePilot) PointCameraAwayFrom(x, y float64) (tello.Rotation, error) {
	return tello.Rotation{}, p.record("from %g %g", x, y)
}
func (p *fakePilot) Command(text string) (tello.Reply, error) {
	return "ok", p.record("raw %s", text)
}

type fakeHistory struct {
	entries  []journal.Entry
	sessions []journal.Session
}

func (h *fakeHistory) Sessions(_ context.Context) ([]journal.Session, error) {
	return h.sessions, nil
}

func (h *fakeHistory) Recent(_ context.Context, n int) ([]journal.Entry, error) {
	if n < len(h.entries) {
		return h.entries[len(h.entries)-n:], nil
	}
	return h.entries, nil
}

type testShell struct {
	*Shell
	pilot  *fakePilot
	out    *bytes.Buffer
	sleeps []time.Duration
}

func newTestShell(options ...Option) *testShell {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	ts := &testShell{pilot: &fakePilot{fail: map[string]error{}}, out: &bytes.Buffer{}}
	options = append([]Option{WithLogger(quiet)}, options...)
	ts.Shell = NewShell(ts.pilot, ts.out, options...)
	ts.Shell.sleep = func(ctx context.Context, d time.Duration) error {
		ts.sleeps = append(ts.sleeps, d)
		return ctx.Err()
	}
	return ts
}

func TestSemicolonSeparatedCommands(t *testing.T) {
	ts := newTestShell()
	quit, err := ts.ExecLine(context.Background(), "takeoff; forward 100 ;; cw 90;land")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Equal(t, []string{"takeoff", "forward 100", "cw 90", "land"}, ts.pilot.calls)
	assert.Equal(t, []time.Duration{5 * time.Second, 3 * time.Second, 2 * time.Second, 5 * time.Second}, ts.sleeps)
}

func TestSettleDelaysFromConfig(t *testing.T) {
	cfg := config.DefaultConfig().Shell
	cfg.DefaultDelay = config.Duration(100 * time.Millisecond)
	cfg.Delays = map[string]config.Duration{"forward": config.Duration(time.Second)}
	ts := newTestShell(WithConfig(cfg))

	_, err := ts.ExecLine(context.Background(), "forward 20; photo; help; get_position")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Second, 100 * time.Millisecond, 100 * time.Millisecond}, ts.sleeps,
		"help has no settle delay")
}

func TestAliases(t *testing.T) {
	ts := newTestShell()
	_, err := ts.ExecLine(context.Background(), "backward 30; rotate_ccw 45; CW 10")
	require.NoError(t, err)
	assert.Equal(t, []string{"back 30", "ccw 45", "cw 10"}, ts.pilot.calls)
}

func TestExitStopsTheLine(t *testing.T) {
	ts := newTestShell()
	quit, err := ts.ExecLine(context.Background(), "land; exit; takeoff")
	require.NoError(t, err)
	assert.True(t, quit)
	assert.Equal(t, []string{"land"}, ts.pilot.calls)
}

func TestErrorsAreReportedAndLineContinues(t *testing.T) {
	ts := newTestShell()
	ts.pilot.fail["takeoff"] = errors.New("tello: \"takeoff\" failed: error Motor stop")
	_, err := ts.ExecLine(context.Background(), "takeoff; forward abc; bogus; land")
	require.NoError(t, err)
	assert.Equal(t, []string{"takeoff", "land"}, ts.pilot.calls)
	out := ts.out.String()
	assert.Contains(t, out, "Error executing takeoff")
	assert.Contains(t, out, "error Motor stop")
	assert.Contains(t, out, "invalid distance: abc")
	assert.Contains(t, out, "Unknown command: bogus")
	assert.Equal(t, []time.Duration{5 * time.Second}, ts.sleeps, "only the successful land settles")
}

func TestWait(t *testing.T) {
	ts := newTestShell()
	_, err := ts.ExecLine(context.Background(), "wait 1.5; wait soon")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{1500 * time.Millisecond}, ts.sleeps)
	assert.Contains(t, ts.out.String(), "invalid wait time: soon")
}

func TestCancelledContext(t *testing.T) {
	ts := newTestShell()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ts.ExecLine(ctx, "takeoff")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ts.pilot.calls)
}

func TestTakeoffVariants(t *testing.T) {
	ts := newTestShell()
	_, err := ts.ExecLine(context.Background(), "takeoff 2.5; takeoff 10; takeoff high")
	require.NoError(t, err)
	assert.Equal(t, []string{"takeoff 2.5", "takeoff 10", "takeoff"}, ts.pilot.calls)
	out := ts.out.String()
	assert.Contains(t, out, "Warning: too high")
	assert.Contains(t, out, "invalid height value")
}

func TestMediaCommands(t *testing.T) {
	ts := newTestShell()
	ts.pilot.files = []string{"a.jpg", "b.jpg"}
	_, err := ts.ExecLine(context.Background(),
		"media list; media download a.jpg; media direct b.jpg; media delete a.jpg; media deleteall; media path /tmp/x; media download; media frob")
	require.NoError(t, err)
	assert.Equal(t, []string{"ls", "download a.jpg", "direct_transfer b.jpg", "rm a.jpg", "rmall", "path /tmp/x"}, ts.pilot.calls)
	out := ts.out.String()
	assert.Contains(t, out, "  b.jpg")
	assert.Contains(t, out, "destination media/a.jpg")
	assert.Contains(t, out, "please specify a file name")
	assert.Contains(t, out, "unknown media command: frob")
}

func TestVideoAndPhoto(t *testing.T) {
	ts := newTestShell()
	_, err := ts.ExecLine(context.Background(), "video start; photo; video stop; video")
	require.NoError(t, err)
	assert.Equal(t, []string{"streamon", "photo", "streamoff"}, ts.pilot.calls)
	assert.Contains(t, ts.out.String(), "usage: video start|stop")
}

func TestPositioning(t *testing.T) {
	ts := newTestShell()
	_, err := ts.ExecLine(context.Background(), "position 1 2 0.5; get_position; camera_to_center 0 0; camera_from_center 0 0; position 1 2")
	require.NoError(t, err)
	assert.Equal(t, []string{"position 1 2 0.5", "to 0 0", "from 0 0"}, ts.pilot.calls)
	out := ts.out.String()
	assert.Contains(t, out, "Current drone position: (1.00, 2.00, 0.50)")
	assert.Contains(t, out, "turned 90° clockwise")
	assert.Contains(t, out, "Camera already pointed away from (0, 0)")
	assert.Contains(t, out, "expected x y z")
}

func TestStateDisplay(t *testing.T) {
	ts := newTestShell()
	_, err := ts.ExecLine(context.Background(), "state")
	require.NoError(t, err)
	assert.Contains(t, ts.out.String(), "No telemetry received yet")

	ts.pilot.snap = &tello.Snapshot{Raw: "pitch:0;roll:0;yaw:0;bat:80;tof:10;mid:-1;", Received: time.Now()}
	ts.out.Reset()
	_, err = ts.ExecLine(context.Background(), "state")
	require.NoError(t, err)
	out := ts.out.String()
	assert.Contains(t, out, "Battery & Temperature:\n  bat:80")
	assert.Contains(t, out, "Flight Parameters:")
	assert.Contains(t, out, "Position Information:\n  tof:10")
	assert.Contains(t, out, "Other:\n  mid:-1")
}

func TestInfo(t *testing.T) {
	ts := newTestShell()
	ts.pilot.info = tello.DroneInfo{
		SDK:     "30",
		Battery: "77",
		Errors:  map[string]error{"wifi?": errors.New("tello: reply data unavailable")},
	}
	_, err := ts.ExecLine(context.Background(), "info")
	require.NoError(t, err)
	out := ts.out.String()
	assert.Contains(t, out, "Version: "+tello.TelloPackageVersion)
	assert.Contains(t, out, "Battery:       77")
	assert.Contains(t, out, "WiFi SNR:      unavailable (tello: reply data unavailable)")
}

func TestHistory(t *testing.T) {
	ts := newTestShell()
	_, err := ts.ExecLine(context.Background(), "history")
	require.NoError(t, err)
	assert.Contains(t, ts.out.String(), "journal is disabled")

	h := &fakeHistory{}
	for i, c := range []string{"command", "takeoff", "ls"} {
		e := journal.Entry{}
		e.Command, e.Reply, e.Outcome = c, "ok", tello.OutcomeOK
		e.Started = time.Now().Add(time.Duration(i-3) * time.Minute)
		h.entries = append(h.entries, e)
	}
	h.entries[2].Outcome, h.entries[2].Err = tello.OutcomeUnavailable, "data unavailable"

	ts = newTestShell(WithHistory(h))
	_, err = ts.ExecLine(context.Background(), "history 2")
	require.NoError(t, err)
	out := ts.out.String()
	assert.NotContains(t, out, "command ")
	assert.Contains(t, out, "takeoff")
	assert.Contains(t, out, "minutes ago")
	assert.Contains(t, out, "data unavailable")
}

func TestHistorySessions(t *testing.T) {
	h := &fakeHistory{}
	ts := newTestShell(WithHistory(h))
	_, err := ts.ExecLine(context.Background(), "history sessions")
	require.NoError(t, err)
	assert.Contains(t, ts.out.String(), "No sessions recorded yet")

	h.sessions = []journal.Session{
		{ID: "5b0e6a3c-0000-4000-8000-000000000002", Drone: "192.168.10.1:8889", Started: time.Now().Add(-2 * time.Hour)},
		{ID: "5b0e6a3c-0000-4000-8000-000000000001", Drone: "192.168.10.1:8889", Started: time.Now().Add(-26 * time.Hour)},
	}
	ts.out.Reset()
	_, err = ts.ExecLine(context.Background(), "history sessions")
	require.NoError(t, err)
	out := ts.out.String()
	assert.Contains(t, out, "5b0e6a3c-0000-4000-8000-000000000002")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "1 day ago")
	assert.Contains(t, out, "192.168.10.1:8889")
}

func TestNonFiniteArguments(t *testing.T) {
	ts := newTestShell()
	_, err := ts.ExecLine(context.Background(),
		"takeoff NaN; position NaN 0 0; position 0 +Inf 0; camera_to_center NaN 0; camera_from_center 0 -inf; wait Inf")
	require.NoError(t, err)
	assert.Equal(t, []string{"takeoff"}, ts.pilot.calls, "only the default takeoff is sent")
	assert.Equal(t, tello.Pose{}, ts.pilot.Pose())
	out := ts.out.String()
	assert.Contains(t, out, "invalid height value, using default height (1m)")
	assert.Contains(t, out, "invalid x: NaN")
	assert.Contains(t, out, "invalid y: +Inf")
	assert.Contains(t, out, "invalid y: -inf")
	assert.Contains(t, out, "invalid wait time: Inf")
}

func TestRawAndHelp(t *testing.T) {
	ts := newTestShell()
	_, err := ts.ExecLine(context.Background(), "raw speed 50; help")
	require.NoError(t, err)
	assert.Equal(t, []string{"raw speed 50"}, ts.pilot.calls)
	out := ts.out.String()
	assert.Contains(t, out, "Reply: ok")
	for _, cat := range categoryOrder {
		assert.Contains(t, out, "=== "+strings.ToUpper(string(cat))+" ===")
	}
	assert.Contains(t, out, "camera_from_center <x> <y>")
}

func TestRunReadsUntilExit(t *testing.T) {
	ts := newTestShell()
	err := ts.Run(context.Background(), strings.NewReader("takeoff\n\nland\nexit\nforward 10\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"takeoff", "land"}, ts.pilot.calls)
	assert.Contains(t, ts.out.String(), prompt)

	ts = newTestShell()
	require.NoError(t, ts.Run(context.Background(), strings.NewReader("land")), "EOF ends the session")
	assert.Equal(t, []string{"land"}, ts.pilot.calls)
}
