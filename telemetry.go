// telemetry.go

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
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// stateSlot holds the latest telemetry snapshot.  It is written by the listener
// and read by anyone; readers get a copy.
type stateSlot struct {
	mu   sync.RWMutex
	snap *Snapshot
}

func (s *stateSlot) store(snap Snapshot) {
	s.mu.Lock()
	s.snap = &snap
	s.mu.Unlock()
}

func (s *stateSlot) load() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return Snapshot{}, false
	}
	return *s.snap, true
}

// telemetryListener drains the state port into a stateSlot until its context is cancelled.
type telemetryListener struct {
	conn    *net.UDPConn
	slot    *stateSlot
	timeout time.Duration
	log     logrus.FieldLogger
	done    chan struct{}
}

func listenTelemetry(localPort int, slot *stateSlot, timeout time.Duration, log logrus.FieldLogger) (*telemetryListener, error) {
	laddr, err := net.ResolveUDPAddr("udp", ":"+strconv.Itoa(localPort))
	if err != nil {
		return nil, &ConnectionError{Op: "resolve telemetry address", Err: err}
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, &ConnectionError{Op: "bind telemetry port", Err: err}
	}
	log.WithField("port", conn.LocalAddr().String()).Debug("telemetry channel bound")
	return &telemetryListener{
		conn:    conn,
		slot:    slot,
		timeout: timeout,
		log:     log,
		done:    make(chan struct{}),
	}, nil
}

func (tl *telemetryListener) localAddr() *net.UDPAddr {
	return tl.conn.LocalAddr().(*net.UDPAddr)
}

// run loops until ctx is done.  Read timeouts are expected and silent, any other
// receive error is logged and the loop carries on.
func (tl *telemetryListener) run(ctx context.Context) {
	defer close(tl.done)
	defer tl.conn.Close()

	buff := make([]byte, maxDatagram)
	for {
		select {
		case <-ctx.Done():
			tl.log.Debug("telemetry listener stopped")
			return
		default:
		}
		if err := tl.conn.SetReadDeadline(time.Now().Add(tl.timeout)); err != nil {
			tl.log.WithError(err).Error("telemetry deadline")
		}
		n, _, err := tl.conn.ReadFromUDP(buff)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) || ctx.Err() != nil {
				continue
			}
			tl.log.WithError(err).Error("telemetry read error")
			select {
			case <-ctx.Done():
			case <-time.After(readErrorBackoff):
			}
			continue
		}
		tl.slot.store(Snapshot{Raw: string(buff[:n]), Received: time.Now()})
	}
}

// wait blocks until run has returned.
func (tl *telemetryListener) wait() {
	<-tl.done
}
