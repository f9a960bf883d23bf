// tello.go

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

package tello

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// TelloPackageVersion is the version of this package.
const TelloPackageVersion = "0.3.0"

const defaultDownloadPath = "./tello_media"

// commander is the synchronous half of a session: one command in, one reply out.
type commander interface {
	send(cmd string) (Reply, error)
	close() error
}

// Tello holds the state of a session with a Tello drone.
// Create one with New(), then call Connect().
type Tello struct {
	ctrlMu    sync.Mutex // serialises command/update sequences
	ctrl      commander
	telemetry *telemetryListener
	cancel    context.CancelFunc
	state     stateSlot

	navMu sync.RWMutex // this mutex protects the navigator
	nav   Navigator

	videoRecording bool

	// settings
	droneAddr                   string
	dronePort, localPort        int
	telemetryPort, filePort     int
	cmdTimeout, telemetryPeriod time.Duration
	downloadPath                string
	log                         logrus.FieldLogger
	journal                     Journal
}

// Option configures a Tello
type Option func(*Tello)

// WithDroneAddr sets the IP address or host name of the drone.
func WithDroneAddr(addr string) Option {
	return func(t *Tello) { t.droneAddr = addr }
}

// WithPorts sets the drone's command port, the local reply port, the local telemetry port
// and the (reserved) file transfer port.  A local port of 0 binds an ephemeral port.
func WithPorts(dronePort, localPort, telemetryPort, filePort int) Option {
	return func(t *Tello) {
		t.dronePort, t.localPort, t.telemetryPort, t.filePort = dronePort, localPort, telemetryPort, filePort
	}
}

// WithCommandTimeout sets how long to wait for each command's reply.
func WithCommandTimeout(d time.Duration) Option {
	return func(t *Tello) { t.cmdTimeout = d }
}

// WithTelemetryTimeout sets the telemetry listener's receive timeout, which is also
// how quickly it notices cancellation.
func WithTelemetryTimeout(d time.Duration) Option {
	return func(t *Tello) { t.telemetryPeriod = d }
}

// WithDownloadPath sets the directory media downloads are written to.
func WithDownloadPath(path string) Option {
	return func(t *Tello) { t.downloadPath = path }
}

// WithLogger sets the logger, the default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(t *Tello) { t.log = log }
}

// WithJournal records every command exchange to j.
func WithJournal(j Journal) Option {
	return func(t *Tello) { t.journal = j }
}

// New returns an unconnected Tello using the default network addresses unless overridden.
// The pose starts at the origin with heading 0.
func New(options ...Option) *Tello {
	t := &Tello{
		droneAddr:       defaultTelloAddr,
		dronePort:       defaultTelloCommandPort,
		localPort:       defaultLocalCommandPort,
		telemetryPort:   defaultLocalTelemetryPort,
		filePort:        defaultFileTransferPort,
		cmdTimeout:      defaultCommandTimeout,
		telemetryPeriod: defaultTelemetryTimeout,
		downloadPath:    defaultDownloadPath,
		log:             logrus.StandardLogger(),
	}
	for _, option := range options {
		option(t)
	}
	return t
}

// Connect binds the command and telemetry ports, starts the telemetry listener and
// puts the drone into SDK mode.  The listener stops when ctx is cancelled or on Disconnect().
// Any failure is returned as a *ConnectionError and leaves the Tello disconnected.
func (tello *Tello) Connect(ctx context.Context) error {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()

	if tello.ctrl != nil {
		return errors.New("tello: already connected")
	}
	if err := os.MkdirAll(tello.downloadPath, 0o755); err != nil {
		return &ConnectionError{Op: "create download directory", Err: err}
	}

	lnk, err := dialLink(tello.droneAddr, tello.dronePort, tello.localPort, tello.cmdTimeout, tello.log)
	if err != nil {
		return err
	}
	tl, err := listenTelemetry(tello.telemetryPort, &tello.state, tello.telemetryPeriod, tello.log)
	if err != nil {
		lnk.close()
		return err
	}

	lctx, cancel := context.WithCancel(ctx)
	go tl.run(lctx)

	tello.ctrl = lnk
	tello.telemetry = tl
	tello.cancel = cancel

	reply, err := tello.exchange(cmdHandshake)
	if err == nil && !reply.OK() {
		err = &ProtocolError{Command: cmdHandshake, Reply: reply}
	}
	if err != nil {
		tello.teardown()
		return &ConnectionError{Op: "handshake", Err: err}
	}

	tello.log.WithFields(logrus.Fields{
		"drone":     tello.droneAddr,
		"port":      lnk.localAddr().Port,
		"telemetry": tl.localAddr().Port,
	}).Info("connected to Tello")
	return nil
}

// Disconnect stops the telemetry listener and closes both sockets.
// It is safe to call on an unconnected Tello.
func (tello *Tello) Disconnect() {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()
	if tello.ctrl == nil {
		return
	}
	tello.teardown()
	tello.log.Info("disconnected from Tello")
}

func (tello *Tello) teardown() {
	if tello.cancel != nil {
		tello.cancel()
	}
	if tello.ctrl != nil {
		tello.ctrl.close()
	}
	if tello.telemetry != nil {
		tello.telemetry.wait()
	}
	tello.ctrl, tello.telemetry, tello.cancel = nil, nil, nil
}

// Connected returns true if we are currently connected
func (tello *Tello) Connected() bool {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()
	return tello.ctrl != nil
}

// State returns the latest telemetry received from the Tello, ok is false if
// nothing has arrived yet.  It never blocks on the command channel.
func (tello *Tello) State() (snap Snapshot, ok bool) {
	return tello.state.load()
}

// Pose returns the dead-reckoned position and heading.
func (tello *Tello) Pose() Pose {
	tello.navMu.RLock()
	defer tello.navMu.RUnlock()
	return tello.nav.Pose()
}

// Position returns the dead-reckoned (x, y, z) in metres.
func (tello *Tello) Position() (x, y, z float64) {
	p := tello.Pose()
	return p.X, p.Y, p.Z
}

// Heading returns the dead-reckoned heading in degrees, [0, 360).
func (tello *Tello) Heading() float64 {
	return tello.Pose().Heading
}

// SetPosition overrides the dead-reckoned position, eg. after placing the drone by hand.
// Non-finite coordinates are rejected and the position left unchanged.
func (tello *Tello) SetPosition(x, y, z float64) error {
	if err := checkFinite("position", x, y, z); err != nil {
		return err
	}
	tello.navMu.Lock()
	tello.nav.SetPosition(x, y, z)
	tello.navMu.Unlock()
	return nil
}

// DistanceTo returns the horizontal distance in metres from the dead-reckoned position to (x, y).
func (tello *Tello) DistanceTo(x, y float64) float64 {
	tello.navMu.RLock()
	defer tello.navMu.RUnlock()
	return tello.nav.DistanceTo(x, y)
}

// Command sends raw SDK text and returns whatever the drone replied.
func (tello *Tello) Command(text string) (Reply, error) {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()
	return tello.exchange(text)
}

// exchange sends one command and logs the result; ctrlMu must be held.
func (tello *Tello) exchange(cmd string) (Reply, error) {
	if tello.ctrl == nil {
		return "", ErrNotConnected
	}
	start := time.Now()
	reply, err := tello.ctrl.send(cmd)
	tello.recordExchange(cmd, reply, err, start)
	return reply, err
}

// do sends cmd and insists on an "ok" acknowledgement; ctrlMu must be held.
func (tello *Tello) do(cmd string) error {
	reply, err := tello.exchange(cmd)
	if err != nil {
		return err
	}
	if !reply.OK() {
		return &ProtocolError{Command: cmd, Reply: reply}
	}
	return nil
}
