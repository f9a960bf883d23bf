// messages.go

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
	"time"
)

// SDK text commands understood by the Tello
const (
	cmdHandshake      = "command"
	cmdTakeoff        = "takeoff"
	cmdLand           = "land"
	cmdCW             = "cw"
	cmdCCW            = "ccw"
	cmdStreamOn       = "streamon"
	cmdStreamOff      = "streamoff"
	cmdSnapshot       = "snapshot"
	cmdTakePic        = "takepic"
	cmdListMedia      = "ls"
	cmdDownload       = "download"
	cmdDirectTransfer = "direct_transfer"
	cmdRemove         = "rm"
	cmdRemoveAll      = "rmall"
)

// read-only queries, the reply is the answer rather than "ok"
const (
	querySDK      = "sdk?"
	querySerial   = "sn?"
	queryHardware = "hardware?"
	queryFirmware = "version?"
	queryBattery  = "battery?"
	queryWifi     = "wifi?"
	querySpeed    = "speed?"
	queryTime     = "time?"
)

const replyOK = "ok"

// Direction is one of the six relative movement directions.
type Direction string

// Movement directions, the string value is also the SDK verb
const (
	Forward Direction = "forward"
	Back    Direction = "back"
	Left    Direction = "left"
	Right   Direction = "right"
	Up      Direction = "up"
	Down    Direction = "down"
)

// ParseDirection resolves a verb to a Direction, "backward" is accepted as an alias for "back".
func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Forward, Back, Left, Right, Up, Down:
		return d, true
	case "backward":
		return Back, true
	}
	return "", false
}

// isDataCommand reports whether the reply to cmd carries a payload which
// cannot be replaced by an implicit "ok".
func isDataCommand(cmd string) bool {
	verb := cmd
	if i := strings.IndexByte(cmd, ' '); i >= 0 {
		verb = cmd[:i]
	}
	switch verb {
	case cmdListMedia, cmdDownload, cmdDirectTransfer:
		return true
	}
	return strings.HasSuffix(verb, "?")
}

// Reply is the text returned by the Tello in response to a command.
type Reply string

// Text returns the reply with surrounding whitespace removed.
func (r Reply) Text() string {
	return strings.TrimSpace(string(r))
}

// OK is true only for an exact "ok" acknowledgement.
func (r Reply) OK() bool {
	return r.Text() == replyOK
}

// IsError is true if the drone reported an error.
func (r Reply) IsError() bool {
	return strings.Contains(string(r), "error") || strings.Contains(string(r), "Error")
}

// IsTelemetry is true if the reply looks like a state packet rather than an acknowledgement.
func (r Reply) IsTelemetry() bool {
	return looksLikeTelemetry(string(r))
}

func looksLikeTelemetry(s string) bool {
	return strings.Contains(s, "pitch:") && strings.Contains(s, "roll:") && strings.Contains(s, "yaw:")
}

// Snapshot is the most recent telemetry packet received from the Tello.
type Snapshot struct {
	Raw      string
	Received time.Time
}

// Fields splits the snapshot into its key:value pairs.
// Empty tokens and tokens without a colon are skipped, later duplicates win.
func (s Snapshot) Fields() map[string]string {
	fields := make(map[string]string)
	for _, tok := range strings.Split(strings.TrimSpace(s.Raw), ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(tok), ":")
		if !ok || k == "" {
			continue
		}
		fields[k] = v
	}
	return fields
}

// FieldGroup is a named subset of telemetry fields for display.
type FieldGroup struct {
	Name   string
	Fields []string // "key:value" in packet order
}

// Groups sorts the packet's fields into battery, flight, position and other groups.
// Groups with no fields are omitted.
func (s Snapshot) Groups() []FieldGroup {
	groups := []FieldGroup{{Name: "Battery & Temperature"}, {Name: "Flight Parameters"},
		{Name: "Position Information"}, {Name: "Other"}}
	for _, tok := range strings.Split(strings.TrimSpace(s.Raw), ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		k, _, _ := strings.Cut(tok, ":")
		var g int
		switch {
		case strings.Contains(k, "bat") || strings.Contains(k, "temp"):
			g = 0
		case strings.Contains(k, "pitch") || strings.Contains(k, "roll") || strings.Contains(k, "yaw") ||
			strings.HasPrefix(k, "vg") || strings.HasPrefix(k, "ag"):
			g = 1
		case k == "tof" || k == "h" || k == "baro" || k == "x" || k == "y" || k == "z":
			g = 2
		default:
			g = 3
		}
		groups[g].Fields = append(groups[g].Fields, tok)
	}
	var res []FieldGroup
	for _, g := range groups {
		if len(g.Fields) > 0 {
			res = append(res, g)
		}
	}
	return res
}

// State is the decoded form of a telemetry packet.
// Keys missing from the packet leave the corresponding field at zero.
type State struct {
	Pitch, Roll, Yaw int     // degrees
	SpeedX           int     // vgx, dm/s
	SpeedY           int     // vgy
	SpeedZ           int     // vgz
	TempLow          int     // templ, °C
	TempHigh         int     // temph
	TOF              int     // time-of-flight distance, cm
	Height           int     // h, cm
	Battery          int     // bat, percent
	Barometer        float64 // baro, m
	FlightTime       int     // time, s (motors on)
	AccelX           float64 // agx, 0.001g
	AccelY           float64
	AccelZ           float64
}

// State decodes the known fields of the snapshot.  Unknown keys and unparseable
// values are ignored.
func (s Snapshot) State() State {
	var st State
	ints := map[string]*int{
		"pitch": &st.Pitch, "roll": &st.Roll, "yaw": &st.Yaw,
		"vgx": &st.SpeedX, "vgy": &st.SpeedY, "vgz": &st.SpeedZ,
		"templ": &st.TempLow, "temph": &st.TempHigh,
		"tof": &st.TOF, "h": &st.Height, "bat": &st.Battery, "time": &st.FlightTime,
	}
	floats := map[string]*float64{
		"baro": &st.Barometer, "agx": &st.AccelX, "agy": &st.AccelY, "agz": &st.AccelZ,
	}
	for k, v := range s.Fields() {
		v = strings.TrimSpace(v)
		if p, ok := ints[k]; ok {
			if n, err := strconv.Atoi(v); err == nil {
				*p = n
			} else if f, err := strconv.ParseFloat(v, 64); err == nil {
				*p = int(f)
			}
			continue
		}
		if p, ok := floats[k]; ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*p = f
			}
		}
	}
	return st
}
