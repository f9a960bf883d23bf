// network.go

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
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultTelloAddr          = "192.168.10.1"
	defaultTelloCommandPort   = 8889
	defaultLocalCommandPort   = 8890
	defaultLocalTelemetryPort = 8891
	defaultFileTransferPort   = 8888 // reserved, no transfer is implemented

	defaultCommandTimeout   = 5 * time.Second
	defaultTelemetryTimeout = time.Second
	readErrorBackoff        = 100 * time.Millisecond

	maxDatagram = 2048
)

// link is the command channel to the drone: one command out, one reply back.
type link struct {
	mu      sync.Mutex // one outstanding command at a time
	conn    *net.UDPConn
	timeout time.Duration
	log     logrus.FieldLogger
}

// dialLink binds the local command port and targets the drone's command port.
func dialLink(droneAddr string, dronePort, localPort int, timeout time.Duration, log logrus.FieldLogger) (*link, error) {
	raddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(droneAddr, strconv.Itoa(dronePort)))
	if err != nil {
		return nil, &ConnectionError{Op: "resolve drone address", Err: err}
	}
	laddr, err := net.ResolveUDPAddr("udp", ":"+strconv.Itoa(localPort))
	if err != nil {
		return nil, &ConnectionError{Op: "resolve local address", Err: err}
	}
	conn, err := net.DialUDP("udp", laddr, raddr)
	if err != nil {
		return nil, &ConnectionError{Op: "bind command port", Err: err}
	}
	log.WithField("port", conn.LocalAddr().String()).Debug("command channel bound")
	return &link{conn: conn, timeout: timeout, log: log}, nil
}

func (l *link) localAddr() *net.UDPAddr {
	return l.conn.LocalAddr().(*net.UDPAddr)
}

func (l *link) close() error {
	return l.conn.Close()
}

// send transmits cmd and waits for its reply.
//
// A reply carrying pitch/roll/yaw markers is a state packet which overtook the real
// acknowledgement.  For ordinary commands it is taken as an implicit "ok" since the
// drone frequently answers with telemetry first and we cannot tell the two apart;
// the true acknowledgement, if any, is lost.  Data-bearing commands keep reading
// until the timeout budget is spent and then report ErrDataUnavailable.
func (l *link) send(cmd string) (Reply, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.log.WithField("cmd", cmd).Debug("sending command")
	if _, err := l.conn.Write([]byte(cmd)); err != nil {
		return "", errors.Wrapf(err, "sending %q", cmd)
	}

	deadline := time.Now().Add(l.timeout)
	if err := l.conn.SetReadDeadline(deadline); err != nil {
		return "", errors.Wrap(err, "setting read deadline")
	}
	buff := make([]byte, maxDatagram)
	shadowed := false
	for {
		n, err := l.conn.Read(buff)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				if shadowed {
					return "", &ProtocolError{Command: cmd, Err: ErrDataUnavailable}
				}
				return "", &TimeoutError{Command: cmd, After: l.timeout}
			}
			return "", errors.Wrapf(err, "reading reply to %q", cmd)
		}
		reply := Reply(strings.ToValidUTF8(string(buff[:n]), "�"))
		if !reply.IsTelemetry() {
			l.log.WithFields(logrus.Fields{"cmd": cmd, "reply": reply.Text()}).Debug("reply received")
			return reply, nil
		}
		if !isDataCommand(cmd) {
			l.log.WithField("cmd", cmd).Warn("telemetry received instead of acknowledgement, assuming ok")
			return replyOK, nil
		}
		l.log.WithField("cmd", cmd).Warn("telemetry shadowed a data reply, reading again")
		shadowed = true
	}
}
