// navigation_test.go

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
	"testing"

	"github.com/stretchr/testify/assert"
)

var testHeadings = []float64{0, 1, 30, 45, 89.5, 90, 135, 180, 225, 270, 315, 359}

func TestApplyMoveDisplacement(t *testing.T) {
	dirs := map[Direction]float64{Forward: 0, Right: 90, Back: 180, Left: 270}
	for _, h := range testHeadings {
		for dir, offset := range dirs {
			for _, cm := range []float64{1, 37, 100, 500} {
				n := Navigator{pose: Pose{X: 2, Y: -3, Heading: h}}
				n.ApplyMove(dir, cm)
				p := n.Pose()
				dx, dy := p.X-2, p.Y+3
				assert.InDelta(t, cm/100, math.Hypot(dx, dy), 1e-9, "%s %g at %g", dir, cm, h)
				want := degToRad(h + offset)
				assert.InDelta(t, math.Sin(want)*cm/100, dx, 1e-9)
				assert.InDelta(t, math.Cos(want)*cm/100, dy, 1e-9)
				assert.Equal(t, 0.0, p.Z)
				assert.Equal(t, h, p.Heading, "moves never turn")
			}
		}
	}
}

func TestApplyMoveVertical(t *testing.T) {
	var n Navigator
	n.ApplyMove(Up, 150)
	n.ApplyMove(Down, 50)
	assert.InDelta(t, 1.0, n.Pose().Z, 1e-9)
	assert.Equal(t, 0.0, n.Pose().X)
	assert.Equal(t, 0.0, n.Pose().Y)
}

func TestApplyRotationRoundTrip(t *testing.T) {
	for _, h := range testHeadings {
		for _, r := range []float64{1, 45, 90, 180, 270, 359, 360} {
			for _, cw := range []bool{true, false} {
				n := Navigator{pose: Pose{Heading: h}}
				n.ApplyRotation(r, cw)
				got := n.Pose().Heading
				assert.GreaterOrEqual(t, got, 0.0)
				assert.Less(t, got, 360.0)

				n.ApplyRotation(r, !cw)
				assert.InDelta(t, 0, signedDelta(h, n.Pose().Heading), 1e-9, "h=%g r=%g cw=%v", h, r, cw)
			}
		}
	}
}

func TestRotationToFaceConverges(t *testing.T) {
	targets := [][2]float64{{0, 0}, {5, 5}, {-3, 2}, {0, -10}, {-1, -1}, {7, 0}}
	for _, h := range testHeadings {
		for _, tgt := range targets {
			n := Navigator{pose: Pose{X: 1, Y: 2, Heading: h}}
			rot := n.RotationToFace(tgt[0], tgt[1])
			assert.LessOrEqual(t, rot.Degrees, 180.0, "never the long way round")
			assert.GreaterOrEqual(t, rot.Degrees, 0.0)
			n.ApplyRotation(rot.Degrees, rot.Clockwise)
			assert.Less(t, math.Abs(signedDelta(n.Pose().Heading, n.BearingTo(tgt[0], tgt[1]))), 1.0,
				"h=%g target=%v", h, tgt)
		}
	}
}

func TestFaceAndFaceAwayOpposite(t *testing.T) {
	targets := [][2]float64{{0, 0}, {5, 5}, {-3, 2}, {0, -10}, {3, 2}}
	for _, tgt := range targets {
		toward := bearing(3, 2, tgt[0], tgt[1], 90)
		away := bearing(3, 2, tgt[0], tgt[1], -90)
		assert.InDelta(t, 180, math.Abs(signedDelta(toward, away)), 1e-9, "target %v", tgt)

		for _, h := range testHeadings {
			a := Navigator{pose: Pose{X: 3, Y: 2, Heading: h}}
			b := a
			r1 := a.RotationToFace(tgt[0], tgt[1])
			r2 := b.RotationToFaceAway(tgt[0], tgt[1])
			a.ApplyRotation(r1.Degrees, r1.Clockwise)
			b.ApplyRotation(r2.Degrees, r2.Clockwise)
			assert.InDelta(t, 180, math.Abs(signedDelta(a.Pose().Heading, b.Pose().Heading)), 2)
		}
	}
}

func TestBearingConvention(t *testing.T) {
	var n Navigator
	assert.InDelta(t, 0, n.BearingTo(0, 5), 1e-9, "straight ahead is +Y")
	assert.InDelta(t, 90, n.BearingTo(5, 0), 1e-9)
	assert.InDelta(t, 180, n.BearingTo(0, -5), 1e-9)
	assert.InDelta(t, 270, n.BearingTo(-5, 0), 1e-9)
}

func TestAlreadyAligned(t *testing.T) {
	n := Navigator{pose: Pose{Heading: 0.6}}
	assert.True(t, n.RotationToFace(0, 10).IsZero())

	n = Navigator{pose: Pose{Heading: 2}}
	rot := n.RotationToFace(0, 10)
	assert.InDelta(t, 2, rot.Degrees, 1e-9)
	assert.False(t, rot.Clockwise)
}

func TestRotationDegenerateTarget(t *testing.T) {
	n := Navigator{pose: Pose{X: 1, Y: 1, Heading: 0}}
	rot := n.RotationToFace(1, 1)
	assert.LessOrEqual(t, rot.Degrees, 180.0)
	assert.Equal(t, 0.0, n.DistanceTo(1, 1))
}

func TestSignedDelta(t *testing.T) {
	tests := []struct{ from, to, want float64 }{
		{0, 90, 90},
		{90, 0, -90},
		{350, 10, 20},
		{10, 350, -20},
		{0, 180, 180},
		{180, 0, 180},
		{270, 90, 180},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, signedDelta(tt.from, tt.to), 1e-9, "%g -> %g", tt.from, tt.to)
	}
}

func TestNormalizeHeading(t *testing.T) {
	assert.Equal(t, 270.0, normalizeHeading(-90))
	assert.Equal(t, 0.0, normalizeHeading(360))
	assert.Equal(t, 10.0, normalizeHeading(730))
	assert.Equal(t, 0.0, normalizeHeading(-1e-15))
}

func TestDistanceTo(t *testing.T) {
	n := Navigator{pose: Pose{X: 0, Y: 0}}
	assert.InDelta(t, 5, n.DistanceTo(3, 4), 1e-9)
	n.SetPosition(3, 4, 2)
	assert.InDelta(t, 0, n.DistanceTo(3, 4), 1e-9)
	assert.Equal(t, 2.0, n.Pose().Z)
}
