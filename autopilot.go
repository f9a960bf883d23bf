// autopilot.go

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
	"math"

	"github.com/sirupsen/logrus"
)

// minAimDistance is how close (metres) a target may be before its bearing is meaningless.
const minAimDistance = 0.05

// OrientCamera turns the drone so its forward camera faces toward (x, y), or directly
// away from it if toward is false, taking the shorter way round.  The point and the
// drone's position are in the dead-reckoned frame.  No command is sent if the camera is
// already within 1 degree, or if the point is within minAimDistance of the drone where
// no bearing can be taken; the returned Rotation is what was commanded.
func (tello *Tello) OrientCamera(x, y float64, toward bool) (Rotation, error) {
	if err := checkFinite("camera target", x, y); err != nil {
		return Rotation{}, err
	}
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()

	tello.navMu.RLock()
	var rot Rotation
	if toward {
		rot = tello.nav.RotationToFace(x, y)
	} else {
		rot = tello.nav.RotationToFaceAway(x, y)
	}
	dist := tello.nav.DistanceTo(x, y)
	tello.navMu.RUnlock()

	deg := int(math.Round(rot.Degrees))
	log := tello.log.WithFields(logrus.Fields{"x": x, "y": y, "toward": toward, "distance": dist})
	if dist < minAimDistance {
		log.Debug("camera target is at the drone, not turning")
		return Rotation{}, nil
	}
	if deg == 0 {
		log.Debug("camera already aligned")
		return Rotation{}, nil
	}
	log.WithFields(logrus.Fields{"degrees": deg, "clockwise": rot.Clockwise}).Debug("orienting camera")

	if err := tello.rotateLocked(deg, rot.Clockwise); err != nil {
		return Rotation{}, err
	}
	return Rotation{Degrees: float64(deg), Clockwise: rot.Clockwise}, nil
}

// PointCameraAt turns the camera toward (x, y).
func (tello *Tello) PointCameraAt(x, y float64) (Rotation, error) {
	return tello.OrientCamera(x, y, true)
}

// PointCameraAwayFrom turns the camera directly away from (x, y).
func (tello *Tello) PointCameraAwayFrom(x, y float64) (Rotation, error) {
	return tello.OrientCamera(x, y, false)
}
