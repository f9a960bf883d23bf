// doc.go

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

/*Package tello provides an unofficial, easy-to-use, standalone API for the Ryze Tello® drone
using its published text SDK.

Disclaimer

Tello is a registered trademark of Ryze Tech.  The author(s) of this package is/are in no way affiliated with Ryze, DJI, or Intel.

Use this package at your own risk.  The author(s) is/are in no way responsible for any damage caused either to or by the
drone when using this software.

Features

The following features have been implemented...
  * Drone built-in flight commands, eg. TakeOff(), Land()
  * Relative movement and rotation, eg. Forward(), Clockwise()
  * Dead-reckoned position and heading, and camera aiming, eg. PointCameraAt()
  * Latest-value telemetry, raw and decoded, via State()
  * Drone information queries, eg. Battery(), Info()
  * Picture taking, video stream start/stop and media management
  * An optional flight journal of every command exchange

An interactive shell using this package is in cmd/tellosh.

Concepts

Connections

The drone is driven over UDP.  Commands are sent to port 8889 on the drone and the single reply to each is
received on local port 8890.  The drone also pushes a continuous stream of status packets to local port 8891;
a background listener keeps only the most recent one, which State() returns without ever touching the command
channel.  Port 8888 is reserved for direct file transfer, which is not implemented.

Shadowed Replies

The drone sometimes answers a command with a status packet rather than its acknowledgement.  For ordinary
commands such a reply is taken as an implicit "ok".  For commands whose reply carries data (eg. ListMedia(),
Battery()) the package keeps reading until the command timeout and then returns a *ProtocolError wrapping
ErrDataUnavailable, it never invents an answer.

Dead Reckoning

The package tracks a Pose from the moves and turns the drone acknowledges.  Heading 0 faces +Y and heading 90 faces +X,
so from the origin Forward(100) ends at (0, 1).  The pose is not read from the drone and drifts like any estimate,
SetPosition() corrects it.

*/
package tello
