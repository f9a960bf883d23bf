// flog.go

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
	"time"

	"github.com/sirupsen/logrus"
)

// Outcome classifies a command exchange for the flight log.
type Outcome string

// Exchange outcomes...
const (
	OutcomeOK          Outcome = "ok"
	OutcomeRejected    Outcome = "rejected"
	OutcomeTimeout     Outcome = "timeout"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeFailed      Outcome = "failed"
)

// Exchange is one command and its result, as recorded in the flight log.
type Exchange struct {
	Command string
	Reply   string
	Outcome Outcome
	Err     string
	Started time.Time
	Elapsed time.Duration
}

// Journal persists flight log exchanges.  Implementations must be safe for use
// from the command path and must not block for long.
type Journal interface {
	RecordExchange(e Exchange) error
}

func classifyExchange(reply Reply, err error) Outcome {
	switch {
	case err == nil && reply.IsError():
		return OutcomeRejected
	case err == nil:
		return OutcomeOK
	case IsTimeout(err):
		return OutcomeTimeout
	case IsProtocol(err):
		return OutcomeUnavailable
	}
	return OutcomeFailed
}

func (tello *Tello) recordExchange(cmd string, reply Reply, err error, start time.Time) {
	ex := Exchange{
		Command: cmd,
		Reply:   reply.Text(),
		Outcome: classifyExchange(reply, err),
		Started: start,
		Elapsed: time.Since(start),
	}
	if err != nil {
		ex.Err = err.Error()
	}

	entry := tello.log.WithFields(logrus.Fields{"cmd": cmd, "outcome": ex.Outcome, "elapsed": ex.Elapsed})
	if err != nil {
		entry.WithError(err).Warn("command failed")
	} else {
		entry.WithField("reply", ex.Reply).Debug("command complete")
	}

	if tello.journal == nil {
		return
	}
	if jerr := tello.journal.RecordExchange(ex); jerr != nil {
		tello.log.WithError(jerr).Error("could not journal exchange")
	}
}
