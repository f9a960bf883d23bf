// video.go

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

import "github.com/pkg/errors"

// StartVideo asks the Tello to start streaming video.  Decoding the stream is up to the caller.
func (tello *Tello) StartVideo() error {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()

	if tello.videoRecording {
		return errors.New("tello: video is already streaming")
	}
	if err := tello.do(cmdStreamOn); err != nil {
		return err
	}
	tello.videoRecording = true
	tello.log.Info("video streaming started")
	return nil
}

// StopVideo asks the Tello to stop streaming video.
func (tello *Tello) StopVideo() error {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()

	if !tello.videoRecording {
		return errors.New("tello: video is not streaming")
	}
	if err := tello.do(cmdStreamOff); err != nil {
		return err
	}
	tello.videoRecording = false
	tello.log.Info("video streaming stopped")
	return nil
}

// VideoStreaming returns true between a successful StartVideo() and StopVideo().
func (tello *Tello) VideoStreaming() bool {
	tello.ctrlMu.Lock()
	defer tello.ctrlMu.Unlock()
	return tello.videoRecording
}
