// navigation.go

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

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"golang.org/x/exp/constraints"
)

// alignedTolerance is the smallest rotation worth commanding, in degrees.
const alignedTolerance = 1.0

// Pose is the dead-reckoned position (metres) and heading (degrees, [0, 360)).
// Heading 0 faces +Y, 90 faces +X.
type Pose struct {
	X, Y, Z float64
	Heading float64
}

// Point returns the horizontal position.
func (p Pose) Point() orb.Point {
	return orb.Point{p.X, p.Y}
}

// Rotation is a relative turn.  Degrees is never negative.
type Rotation struct {
	Degrees   float64
	Clockwise bool
}

// IsZero is true when no turn is required.
func (r Rotation) IsZero() bool {
	return r.Degrees == 0
}

// Navigator tracks Pose from confirmed moves and rotations.  It does no I/O
// and is not safe for concurrent use, the Tello serialises access to it.
type Navigator struct {
	pose Pose
}

// Pose returns the current estimate.
func (n *Navigator) Pose() Pose {
	return n.pose
}

// SetPosition overrides the position, the heading is kept.
func (n *Navigator) SetPosition(x, y, z float64) {
	n.pose.X, n.pose.Y, n.pose.Z = x, y, z
}

// ApplyMove updates the position after a successful relative move of cm centimetres.
func (n *Navigator) ApplyMove(dir Direction, cm float64) {
	m := cm / 100
	var bearing float64
	switch dir {
	case Forward:
		bearing = n.pose.Heading
	case Back:
		bearing = n.pose.Heading + 180
	case Left:
		bearing = n.pose.Heading - 90
	case Right:
		bearing = n.pose.Heading + 90
	case Up:
		n.pose.Z += m
		return
	case Down:
		n.pose.Z -= m
		return
	default:
		return
	}
	rad := degToRad(bearing)
	n.pose.X += m * math.Sin(rad)
	n.pose.Y += m * math.Cos(rad)
}

// ApplyRotation turns the heading by deg, clockwise or not.
func (n *Navigator) ApplyRotation(deg float64, clockwise bool) {
	if !clockwise {
		deg = -deg
	}
	n.pose.Heading = normalizeHeading(n.pose.Heading + deg)
}

// RotationToFace returns the shortest turn which points the nose at (x, y).
func (n *Navigator) RotationToFace(x, y float64) Rotation {
	return n.rotationTo(x, y, 90)
}

// RotationToFaceAway returns the shortest turn which points the nose directly away from (x, y).
func (n *Navigator) RotationToFaceAway(x, y float64) Rotation {
	return n.rotationTo(x, y, -90)
}

// BearingTo is the heading which faces (x, y) from the current position.
func (n *Navigator) BearingTo(x, y float64) float64 {
	return bearing(n.pose.X, n.pose.Y, x, y, 90)
}

// DistanceTo is the horizontal distance in metres from the current position to (x, y).
func (n *Navigator) DistanceTo(x, y float64) float64 {
	return planar.Distance(n.pose.Point(), orb.Point{x, y})
}

// bearing converts the counter-clockwise atan2 angle from (fromX, fromY) to (x, y)
// into a clockwise heading measured from +Y.  An offset of 90 faces the point,
// -90 faces directly away from it.
func bearing(fromX, fromY, x, y, offset float64) float64 {
	theta := radToDeg(math.Atan2(y-fromY, x-fromX))
	return normalizeHeading(offset - theta)
}

func (n *Navigator) rotationTo(x, y, offset float64) Rotation {
	target := bearing(n.pose.X, n.pose.Y, x, y, offset)
	delta := signedDelta(n.pose.Heading, target)
	if math.Abs(delta) < alignedTolerance {
		return Rotation{}
	}
	if delta > 0 {
		return Rotation{Degrees: delta, Clockwise: true}
	}
	return Rotation{Degrees: -delta}
}

// signedDelta returns to-from folded into (-180, 180].
func signedDelta(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	switch {
	case d > 180:
		d -= 360
	case d <= -180:
		d += 360
	}
	return d
}

func normalizeHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 { // -tiny + 360 rounds up
		h = 0
	}
	return h
}

func degToRad[T constraints.Float](deg T) T {
	return deg * T(math.Pi) / 180
}

func radToDeg[T constraints.Float](rad T) T {
	return rad * 180 / T(math.Pi)
}
