// journal.go

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

// Package journal keeps a flight journal of every command exchange in SQLite.
package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // Register driver

	tello "github.com/SMerrony/tello-sdk"
)

const writeTimeout = 2 * time.Second

// Journal wraps the sql.DB connection and the current session.
type Journal struct {
	db *sql.DB

	mu      sync.Mutex
	session string
}

// Entry is one journaled exchange.
type Entry struct {
	Session string
	tello.Exchange
}

// Session is one run of a client against a drone.
type Session struct {
	ID      string
	Drone   string
	Started time.Time
}

// Open opens (creating if needed) the journal database and runs migrations.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create journal dir")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open journal")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping journal")
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to enable WAL mode")
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to set busy timeout")
	}
	// single writer, avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migration failed")
	}
	return j, nil
}

func (j *Journal) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			drone TEXT,
			started_at INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS exchanges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT,
			command TEXT,
			reply TEXT,
			outcome TEXT,
			error TEXT,
			started_at INTEGER,
			elapsed_ns INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_exchanges_session ON exchanges(session_id);`,
	}
	for _, q := range queries {
		if _, err := j.db.Exec(q); err != nil {
			return errors.Wrapf(err, "exec error, query: %s", q)
		}
	}
	return nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// StartSession begins a new session; later exchanges are recorded against it.
func (j *Journal) StartSession(ctx context.Context, drone string) (string, error) {
	id := uuid.New().String()
	if _, err := j.db.ExecContext(ctx,
		"INSERT INTO sessions (id, drone, started_at) VALUES (?, ?, ?)",
		id, drone, time.Now().UnixNano()); err != nil {
		return "", errors.Wrap(err, "failed to start session")
	}
	j.mu.Lock()
	j.session = id
	j.mu.Unlock()
	return id, nil
}

// SessionID returns the current session, empty before StartSession.
func (j *Journal) SessionID() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.session
}

// RecordExchange stores one command exchange against the current session.
func (j *Journal) RecordExchange(e tello.Exchange) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO exchanges (session_id, command, reply, outcome, error, started_at, elapsed_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.SessionID(), e.Command, e.Reply, string(e.Outcome), e.Err, e.Started.UnixNano(), int64(e.Elapsed))
	return errors.Wrap(err, "failed to record exchange")
}

// Recent returns up to n of the latest exchanges across all sessions, oldest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT session_id, command, reply, outcome, error, started_at, elapsed_ns
		 FROM exchanges ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query exchanges")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e               Entry
			outcome         string
			started, elapse int64
		)
		if err := rows.Scan(&e.Session, &e.Command, &e.Reply, &outcome, &e.Err, &started, &elapse); err != nil {
			return nil, errors.Wrap(err, "failed to scan exchange")
		}
		e.Outcome = tello.Outcome(outcome)
		e.Started = time.Unix(0, started)
		e.Elapsed = time.Duration(elapse)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read exchanges")
	}
	for i, k := 0, len(entries)-1; i < k; i, k = i+1, k-1 {
		entries[i], entries[k] = entries[k], entries[i]
	}
	return entries, nil
}

// Sessions lists the recorded sessions, newest first.
func (j *Journal) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx, "SELECT id, drone, started_at FROM sessions ORDER BY started_at DESC")
	if err != nil {
		return nil, errors.Wrap(err, "failed to query sessions")
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			s       Session
			started int64
		)
		if err := rows.Scan(&s.ID, &s.Drone, &started); err != nil {
			return nil, errors.Wrap(err, "failed to scan session")
		}
		s.Started = time.Unix(0, started)
		sessions = append(sessions, s)
	}
	return sessions, errors.Wrap(rows.Err(), "failed to read sessions")
}
