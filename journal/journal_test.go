// journal_test.go

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

package journal_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tello "github.com/SMerrony/tello-sdk"
	"github.com/SMerrony/tello-sdk/journal"
)

// Journal must satisfy the flight log hook.
var _ tello.Journal = (*journal.Journal)(nil)

func openTemp(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(filepath.Join(t.TempDir(), "data", "journal_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)

	id, err := j.StartSession(ctx, "192.168.10.1")
	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.Equal(t, id, j.SessionID())

	start := time.Now()
	for i, cmd := range []string{"command", "takeoff", "forward 100", "land"} {
		require.NoError(t, j.RecordExchange(tello.Exchange{
			Command: cmd,
			Reply:   "ok",
			Outcome: tello.OutcomeOK,
			Started: start.Add(time.Duration(i) * time.Second),
			Elapsed: 30 * time.Millisecond,
		}))
	}
	require.NoError(t, j.RecordExchange(tello.Exchange{
		Command: "ls",
		Outcome: tello.OutcomeUnavailable,
		Err:     "data unavailable",
		Started: start.Add(5 * time.Second),
	}))

	recent, err := j.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "forward 100", recent[0].Command, "oldest first")
	assert.Equal(t, "land", recent[1].Command)
	assert.Equal(t, "ls", recent[2].Command)
	assert.Equal(t, tello.OutcomeUnavailable, recent[2].Outcome)
	assert.Equal(t, "data unavailable", recent[2].Err)
	assert.Equal(t, id, recent[0].Session)
	assert.Equal(t, 30*time.Millisecond, recent[0].Elapsed)
	assert.Equal(t, start.Add(2*time.Second).UnixNano(), recent[0].Started.UnixNano())
}

func TestJournalSessions(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)

	first, err := j.StartSession(ctx, "192.168.10.1")
	require.NoError(t, err)
	second, err := j.StartSession(ctx, "127.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	sessions, err := j.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	ids := []string{sessions[0].ID, sessions[1].ID}
	assert.ElementsMatch(t, []string{first, second}, ids)
}

func TestJournalReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal_test.db")

	j, err := journal.Open(path)
	require.NoError(t, err)
	_, err = j.StartSession(ctx, "192.168.10.1")
	require.NoError(t, err)
	require.NoError(t, j.RecordExchange(tello.Exchange{Command: "battery?", Reply: "80", Outcome: tello.OutcomeOK, Started: time.Now()}))
	require.NoError(t, j.Close())

	j, err = journal.Open(path)
	require.NoError(t, err)
	defer j.Close()
	recent, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "80", recent[0].Reply)
}

func TestJournalEmpty(t *testing.T) {
	j := openTemp(t)
	recent, err := j.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
	assert.Empty(t, j.SessionID())
}
