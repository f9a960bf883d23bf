// info.go

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
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DroneInfo is what the drone reports about itself.  Fields the drone could not
// supply are empty and the reason is in Errors, keyed by query.
type DroneInfo struct {
	SDK        string
	Serial     string
	Hardware   string
	Firmware   string
	Battery    string
	WiFi       string
	Speed      string
	FlightTime string
	Errors     map[string]error
}

// Query sends a read command such as "battery?" and returns the answer.
func (tello *Tello) Query(q string) (string, error) {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()
	return tello.query(q)
}

func (tello *Tello) query(q string) (string, error) {
	reply, err := tello.exchange(q)
	if err != nil {
		return "", err
	}
	if reply.IsError() {
		return "", &ProtocolError{Command: q, Reply: reply}
	}
	return reply.Text(), nil
}

// Battery returns the battery charge in percent as reported by "battery?".
func (tello *Tello) Battery() (int, error) {
	s, err := tello.Query(queryBattery)
	if err != nil {
		return 0, err
	}
	pct, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(err, "tello: unexpected battery reply <%s>", s)
	}
	return pct, nil
}

// Info runs all the drone's read queries.  It only fails outright if not connected.
func (tello *Tello) Info() (DroneInfo, error) {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()

	if tello.ctrl == nil {
		return DroneInfo{}, ErrNotConnected
	}
	info := DroneInfo{Errors: make(map[string]error)}
	for _, q := range []struct {
		cmd string
		dst *string
	}{
		{querySDK, &info.SDK},
		{querySerial, &info.Serial},
		{queryHardware, &info.Hardware},
		{queryFirmware, &info.Firmware},
		{queryBattery, &info.Battery},
		{queryWifi, &info.WiFi},
		{querySpeed, &info.Speed},
		{queryTime, &info.FlightTime},
	} {
		v, err := tello.query(q.cmd)
		if err != nil {
			info.Errors[q.cmd] = err
			continue
		}
		*q.dst = v
	}
	return info, nil
}
