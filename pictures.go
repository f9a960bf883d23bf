// pictures.go

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
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// TakePhoto asks the Tello for a still picture.  Firmwares differ in the command they
// accept so "snapshot" is tried first, then "takepic".  If neither is acknowledged the
// result of the first attempt is returned.
func (tello *Tello) TakePhoto() error {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()

	first := tello.do(cmdSnapshot)
	if first == nil {
		return nil
	}
	if errors.Is(first, ErrNotConnected) {
		return first
	}
	if err := tello.do(cmdTakePic); err == nil {
		return nil
	}
	tello.log.Warn("photo not acknowledged, this model may not store pictures internally")
	return first
}

// SetDownloadPath sets (and creates) the directory media files are downloaded to.
func (tello *Tello) SetDownloadPath(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return errors.Wrapf(err, "creating download directory %s", path)
	}
	tello.ctrlMu.Lock()
	tello.downloadPath = path
	tello.ctrlMu.Unlock()
	return nil
}

// DownloadPath returns the directory media files are downloaded to.
func (tello *Tello) DownloadPath() string {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()
	return tello.downloadPath
}

// ListMedia returns the names of media files stored on the drone.
// If the listing is shadowed by telemetry a *ProtocolError wrapping ErrDataUnavailable
// is returned rather than an empty list.
func (tello *Tello) ListMedia() ([]string, error) {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()

	reply, err := tello.exchange(cmdListMedia)
	if err != nil {
		return nil, err
	}
	if reply.IsError() {
		return nil, &ProtocolError{Command: cmdListMedia, Reply: reply}
	}
	var files []string
	for _, l := range strings.Split(string(reply), "\n") {
		l = strings.TrimSpace(l)
		if l == "" || l == replyOK {
			continue
		}
		files = append(files, l)
	}
	return files, nil
}

// DownloadMedia asks the drone to start sending the named file and returns the path it
// would be saved to.  The transfer itself is not implemented by the SDK's text protocol.
func (tello *Tello) DownloadMedia(name string) (string, error) {
	return tello.requestTransfer(cmdDownload, name)
}

// DirectTransfer is DownloadMedia using the direct transfer command, which
// the drone answers on the reserved file port.
func (tello *Tello) DirectTransfer(name string) (string, error) {
	return tello.requestTransfer(cmdDirectTransfer, name)
}

func (tello *Tello) requestTransfer(verb, name string) (string, error) {
	if err := checkFileName(name); err != nil {
		return "", err
	}
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()

	if err := os.MkdirAll(tello.downloadPath, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating download directory %s", tello.downloadPath)
	}
	dest := filepath.Join(tello.downloadPath, name)

	cmd := verb + " " + name
	reply, err := tello.exchange(cmd)
	if err != nil {
		return "", err
	}
	if reply.IsError() {
		return "", &ProtocolError{Command: cmd, Reply: reply}
	}
	tello.log.WithFields(logrus.Fields{"file": name, "dest": dest, "port": tello.filePort}).Info("transfer requested")
	return dest, nil
}

// DeleteMedia removes the named file from the drone.
func (tello *Tello) DeleteMedia(name string) error {
	if err := checkFileName(name); err != nil {
		return err
	}
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()
	return tello.do(cmdRemove + " " + name)
}

// DeleteAllMedia removes every media file from the drone.
func (tello *Tello) DeleteAllMedia() error {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()
	return tello.do(cmdRemoveAll)
}

func checkFileName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Arg: "file name", Reason: "empty"}
	case strings.ContainsAny(name, "/\\ ") || name == "." || name == "..":
		return &ValidationError{Arg: "file name", Reason: "must be a bare file name"}
	}
	return nil
}
