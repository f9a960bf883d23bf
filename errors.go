// errors.go

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
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
)

// ErrNotConnected is returned by any command issued before Connect() or after Disconnect().
var ErrNotConnected = errors.New("tello: not connected")

// ErrDataUnavailable is the cause of a ProtocolError when the reply to a data-bearing
// command (eg. "ls" or "battery?") was shadowed by telemetry and the real answer never arrived.
var ErrDataUnavailable = errors.New("tello: reply data unavailable (shadowed by telemetry)")

// ConnectionError reports a failure to set up the session: resolving or binding a socket,
// or a handshake that was not acknowledged.  It is fatal to the session.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("tello: connection failed during %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TimeoutError is returned when no datagram arrived within the command window.
type TimeoutError struct {
	Command string
	After   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("tello: no reply to %q within %v", e.Command, e.After)
}

// ProtocolError carries a reply that indicates failure, or the shadowed reply of a
// data-bearing command.  Reply is the raw text as received.
type ProtocolError struct {
	Command string
	Reply   Reply
	Err     error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tello: %q failed: %v (reply <%s>)", e.Command, e.Err, e.Reply)
	}
	return fmt.Sprintf("tello: %q failed: %s", e.Command, e.Reply)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// ValidationError is returned when a caller-supplied argument is out of range.
// No network I/O has taken place when it is returned.
type ValidationError struct {
	Arg      string
	Value    float64
	Min, Max float64
	Reason   string // set for non-numeric arguments
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("tello: invalid %s: %s", e.Arg, e.Reason)
	}
	return fmt.Sprintf("tello: invalid %s %g, should be in (%g, %g]", e.Arg, e.Value, e.Min, e.Max)
}

// IsTimeout reports whether err (or anything it wraps) is a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsProtocol reports whether err (or anything it wraps) is a ProtocolError.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConnection reports whether err (or anything it wraps) is a ConnectionError.
func IsConnection(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// checkRange validates v in the half-open interval (min, max].
// NaN and the infinities are always out of range.
func checkRange(arg string, v, min, max float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= min || v > max {
		return &ValidationError{Arg: arg, Value: v, Min: min, Max: max}
	}
	return nil
}

// checkFinite rejects NaN and infinite coordinates.
func checkFinite(arg string, vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ValidationError{Arg: arg, Value: v, Reason: "must be a finite number"}
		}
	}
	return nil
}
