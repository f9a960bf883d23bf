// registry.go

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

package app

import "context"

// Category groups commands in the help listing.
type Category string

// Command categories, in help order
const (
	CatSystem      Category = "System"
	CatFlight      Category = "Flight Control"
	CatMovement    Category = "Movement"
	CatCamera      Category = "Camera"
	CatMedia       Category = "Media Management"
	CatPositioning Category = "Positioning"
)

var categoryOrder = []Category{CatSystem, CatFlight, CatMovement, CatCamera, CatMedia, CatPositioning}

// handler runs one shell command with its arguments.
type handler func(ctx context.Context, s *Shell, args []string) error

// Command describes one shell verb.
type Command struct {
	Name     string
	Aliases  []string
	Category Category
	Usage    string
	Help     string
	NoSettle bool // no settle delay afterwards
	run      handler
}

type registry struct {
	byName map[string]*Command
	all    []*Command
}

func newRegistry(cmds []*Command) *registry {
	r := &registry{byName: make(map[string]*Command)}
	for _, c := range cmds {
		r.all = append(r.all, c)
		r.byName[c.Name] = c
		for _, a := range c.Aliases {
			r.byName[a] = c
		}
	}
	return r
}

func (r *registry) lookup(verb string) (*Command, bool) {
	c, ok := r.byName[verb]
	return c, ok
}

// byCategory returns the commands of each category in registration order.
func (r *registry) byCategory() map[Category][]*Command {
	m := make(map[Category][]*Command)
	for _, c := range r.all {
		m[c.Category] = append(m[c.Category], c)
	}
	return m
}

func builtinCommands() []*Command {
	return []*Command{
		{Name: "help", Aliases: []string{"?"}, Category: CatSystem, NoSettle: true,
			Usage: "help", Help: "Show available commands", run: cmdHelp},
		{Name: "version", Category: CatSystem, NoSettle: true,
			Usage: "version", Help: "Show application version", run: cmdVersion},
		{Name: "info", Category: CatSystem, NoSettle: true,
			Usage: "info", Help: "Show information about the application and the connected drone", run: cmdInfo},
		{Name: "history", Category: CatSystem, NoSettle: true,
			Usage: "history [n|sessions]", Help: "Show recent command exchanges, or the recorded sessions, from the journal", run: cmdHistory},
		{Name: "raw", Category: CatSystem,
			Usage: "raw <sdk command>", Help: "Send SDK text unchanged and show the reply", run: cmdRaw},
		{Name: "exit", Aliases: []string{"quit"}, Category: CatSystem, NoSettle: true,
			Usage: "exit", Help: "Exit the application"},
		{Name: "wait", Category: CatSystem, NoSettle: true,
			Usage: "wait <seconds>", Help: "Wait the given number of seconds between commands", run: cmdWait},

		{Name: "takeoff", Category: CatFlight,
			Usage: "takeoff [height]", Help: "Take off (optional height in meters, default 1m, max 8m)", run: cmdTakeoff},
		{Name: "land", Category: CatFlight,
			Usage: "land", Help: "Land the drone", run: cmdLand},
		{Name: "state", Category: CatFlight,
			Usage: "state", Help: "Show the latest drone telemetry", run: cmdState},

		moveCommand("forward", "Move forward"),
		moveCommand("back", "Move backward"),
		moveCommand("left", "Move left"),
		moveCommand("right", "Move right"),
		moveCommand("up", "Move up"),
		moveCommand("down", "Move down"),
		{Name: "rotate_cw", Aliases: []string{"cw"}, Category: CatMovement,
			Usage: "rotate_cw <degrees>", Help: "Rotate clockwise by the given degrees (1-360)", run: cmdRotate(true)},
		{Name: "rotate_ccw", Aliases: []string{"ccw"}, Category: CatMovement,
			Usage: "rotate_ccw <degrees>", Help: "Rotate counter-clockwise by the given degrees (1-360)", run: cmdRotate(false)},

		{Name: "photo", Category: CatCamera,
			Usage: "photo", Help: "Take a photo", run: cmdPhoto},
		{Name: "video", Category: CatCamera,
			Usage: "video start|stop", Help: "Start or stop the video stream", run: cmdVideo},

		{Name: "media", Category: CatMedia,
			Usage: "media list|download <file>|direct <file>|delete <file>|deleteall|path <dir>",
			Help:  "Media management on the drone", run: cmdMedia},

		{Name: "position", Category: CatPositioning,
			Usage: "position <x> <y> <z>", Help: "Set the current drone position for camera positioning", run: cmdSetPosition},
		{Name: "get_position", Category: CatPositioning,
			Usage: "get_position", Help: "Display the current drone position and heading", run: cmdGetPosition},
		{Name: "camera_to_center", Category: CatPositioning,
			Usage: "camera_to_center <x> <y>", Help: "Point the camera towards the given point", run: cmdCamera(true)},
		{Name: "camera_from_center", Category: CatPositioning,
			Usage: "camera_from_center <x> <y>", Help: "Point the camera away from the given point", run: cmdCamera(false)},
	}
}

func moveCommand(dir, help string) *Command {
	c := &Command{
		Name:     dir,
		Category: CatMovement,
		Usage:    dir + " <cm>",
		Help:     help + " by the given distance in cm (1-500)",
		run:      cmdMove(dir),
	}
	if dir == "back" {
		c.Aliases = []string{"backward"}
	}
	return c
}
