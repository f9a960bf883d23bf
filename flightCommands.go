// flightCommands.go

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

	"github.com/sirupsen/logrus"
)

const (
	maxMoveCm        = 500
	maxRotateDeg     = 360
	maxTakeoffHeight = 8.0 // metres
	takeoffHeightCm  = 100 // where the drone hovers after a plain takeoff
)

// TakeoffReport describes what TakeOffToHeight actually did.
type TakeoffReport struct {
	Height  float64 // metres the drone should now be hovering at
	Warning string  // non-empty if the requested height was ignored
}

// TakeOff sends a normal takeoff request to the Tello, which climbs to about 1m.
func (tello *Tello) TakeOff() error {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()
	return tello.do(cmdTakeoff)
}

// TakeOffToHeight takes off then issues one up or down command to reach h metres.
// A height outside (0, 8] is ignored with a warning and the default 1m kept.
func (tello *Tello) TakeOffToHeight(h float64) (TakeoffReport, error) {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()

	rep := TakeoffReport{Height: takeoffHeightCm / 100.0}
	if err := tello.do(cmdTakeoff); err != nil {
		return rep, err
	}

	if checkRange("takeoff height", h, 0, maxTakeoffHeight) != nil {
		rep.Warning = fmt.Sprintf("requested height %gm is outside (0, %g], using default height (1m)", h, maxTakeoffHeight)
		tello.log.WithField("height", h).Warn(rep.Warning)
		return rep, nil
	}

	cm := int(math.Round(h * 100))
	var dir Direction
	var dist int
	switch {
	case cm > takeoffHeightCm:
		dir, dist = Up, cm-takeoffHeightCm
	case cm < takeoffHeightCm:
		dir, dist = Down, takeoffHeightCm-cm
	default:
		rep.Height = h
		return rep, nil
	}
	if err := tello.do(fmt.Sprintf("%s %d", dir, dist)); err != nil {
		return rep, err
	}
	tello.applyMove(dir, dist)
	rep.Height = h
	return rep, nil
}

// Land sends a normal Land request to the Tello
func (tello *Tello) Land() error {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()
	return tello.do(cmdLand)
}

// Move flies cm centimetres (1-500) in the given direction and updates the pose.
func (tello *Tello) Move(dir Direction, cm int) error {
	dir, ok := ParseDirection(string(dir))
	if !ok {
		return &ValidationError{Arg: "direction", Reason: "unknown direction"}
	}
	if err := checkRange("distance", float64(cm), 0, maxMoveCm); err != nil {
		return err
	}

	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()
	if err := tello.do(fmt.Sprintf("%s %d", dir, cm)); err != nil {
		return err
	}
	tello.applyMove(dir, cm)
	return nil
}

// Forward moves the drone forward by cm centimetres
func (tello *Tello) Forward(cm int) error { return tello.Move(Forward, cm) }

// Backward moves the drone back by cm centimetres
func (tello *Tello) Backward(cm int) error { return tello.Move(Back, cm) }

// Left moves the drone left by cm centimetres
func (tello *Tello) Left(cm int) error { return tello.Move(Left, cm) }

// Right moves the drone right by cm centimetres
func (tello *Tello) Right(cm int) error { return tello.Move(Right, cm) }

// Up moves the drone up by cm centimetres
func (tello *Tello) Up(cm int) error { return tello.Move(Up, cm) }

// Down moves the drone down by cm centimetres
func (tello *Tello) Down(cm int) error { return tello.Move(Down, cm) }

// Clockwise rotates the drone by deg degrees (1-360) and updates the heading.
func (tello *Tello) Clockwise(deg int) error {
	return tello.rotate(deg, true)
}

// TurnRight is an alias for Clockwise()
func (tello *Tello) TurnRight(deg int) error {
	return tello.Clockwise(deg)
}

// Anticlockwise rotates the drone by deg degrees (1-360) and updates the heading.
func (tello *Tello) Anticlockwise(deg int) error {
	return tello.rotate(deg, false)
}

// TurnLeft is an alias for Anticlockwise()
func (tello *Tello) TurnLeft(deg int) error {
	return tello.Anticlockwise(deg)
}

func (tello *Tello) rotate(deg int, clockwise bool) error {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()
	return tello.rotateLocked(deg, clockwise)
}

// rotateLocked issues cw/ccw and turns the navigator; ctrlMu must be held.
func (tello *Tello) rotateLocked(deg int, clockwise bool) error {
	if err := checkRange("rotation", float64(deg), 0, maxRotateDeg); err != nil {
		return err
	}
	verb := cmdCCW
	if clockwise {
		verb = cmdCW
	}
	if err := tello.do(fmt.Sprintf("%s %d", verb, deg)); err != nil {
		return err
	}
	tello.navMu.Lock()
	tello.nav.ApplyRotation(float64(deg), clockwise)
	tello.navMu.Unlock()
	return nil
}

func (tello *Tello) applyMove(dir Direction, cm int) {
	tello.navMu.Lock()
	tello.nav.ApplyMove(dir, float64(cm))
	p := tello.nav.Pose()
	tello.navMu.Unlock()
	tello.log.WithFields(logrus.Fields{"x": p.X, "y": p.Y, "z": p.Z, "heading": p.Heading}).Debug("pose updated")
}
