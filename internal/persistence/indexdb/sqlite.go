// Package indexdb keeps a queryable sqlite read-model of agent sessions and their turns.
// The journal stays the source of truth; rows are dropped when the writer falls behind.
package indexdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"skirmish.ai/internal/session"
)

const defaultQueue = 4096

type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed  atomic.Bool
	dropped atomic.Uint64
}

type reqKind int

const (
	reqSessionStart reqKind = iota + 1
	reqSessionEnd
	reqTurn
)

type req struct {
	kind reqKind

	start SessionStart
	end   sessionEnd
	turn  session.TurnRecord
}

// SessionStart is written when an agent connects.
type SessionStart struct {
	SessionID string
	AgentID   string
	Transport string
	Remote    string
	StartedAt time.Time
}

type sessionEnd struct {
	SessionID string
	Result    session.Result
	EndedAt   time.Time
}

type Stats struct {
	QueueDepth    int
	QueueCapacity int
	DropTotal     uint64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{db: db, ch: make(chan req, defaultQueue)}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1');`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			agent_id TEXT NOT NULL,
			transport TEXT NOT NULL,
			remote TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT,
			reason TEXT,
			winner TEXT,
			turns INTEGER NOT NULL DEFAULT 0,
			last_turn INTEGER NOT NULL DEFAULT 0,
			intel INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS turns (
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			turn INTEGER NOT NULL,
			call_id TEXT NOT NULL,
			agent_id TEXT NOT NULL,
			team TEXT NOT NULL,
			rule TEXT NOT NULL,
			action TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			hp INTEGER NOT NULL,
			enemies INTEGER NOT NULL,
			allies INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (session_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_rule ON turns(rule);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{QueueDepth: len(s.ch), QueueCapacity: cap(s.ch), DropTotal: s.dropped.Load()}
}

func (s *SQLiteIndex) enqueue(r req) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
		s.dropped.Add(1)
	}
}

func (s *SQLiteIndex) StartSession(st SessionStart) {
	if st.StartedAt.IsZero() {
		st.StartedAt = time.Now()
	}
	s.enqueue(req{kind: reqSessionStart, start: st})
}

func (s *SQLiteIndex) EndSession(sessionID string, res session.Result) {
	s.enqueue(req{kind: reqSessionEnd, end: sessionEnd{SessionID: sessionID, Result: res, EndedAt: time.Now()}})
}

// RecordTurn implements session.Recorder. It never reports an error; full queues drop rows.
func (s *SQLiteIndex) RecordTurn(r session.TurnRecord) error {
	s.enqueue(req{kind: reqTurn, turn: r})
	return nil
}

func ts(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertSession, _ := s.db.Prepare(`INSERT OR REPLACE INTO sessions(session_id,agent_id,transport,remote,started_at) VALUES(?,?,?,?,?)`)
	updateSession, _ := s.db.Prepare(`UPDATE sessions SET ended_at=?,reason=?,winner=?,turns=?,last_turn=?,intel=? WHERE session_id=?`)
	insertTurn, _ := s.db.Prepare(`INSERT OR REPLACE INTO turns(session_id,seq,turn,call_id,agent_id,team,rule,action,x,y,hp,enemies,allies,recorded_at) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	defer func() {
		for _, st := range []*sql.Stmt{insertSession, updateSession, insertTurn} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 256
		commitMaxWait = time.Second

		// turn sequence per session, assigned in the writer goroutine
		seqs = map[string]int{}
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	exec := func(st *sql.Stmt, args ...any) {
		if st == nil || tx == nil {
			return
		}
		if _, err := tx.Stmt(st).Exec(args...); err != nil {
			rollback()
			return
		}
		opCount++
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqSessionStart:
			st := r.start
			exec(insertSession, st.SessionID, st.AgentID, st.Transport, st.Remote, ts(st.StartedAt))

		case reqSessionEnd:
			e := r.end
			exec(updateSession, ts(e.EndedAt), e.Result.Reason, e.Result.Winner,
				e.Result.TurnsPlayed, e.Result.LastTurn, e.Result.IntelCount, e.SessionID)
			// End-of-session rows are the ones stats readers wait for.
			commit()
			continue

		case reqTurn:
			t := r.turn
			seq := seqs[t.SessionID]
			seqs[t.SessionID] = seq + 1
			at := t.At
			if at.IsZero() {
				at = time.Now()
			}
			exec(insertTurn, t.SessionID, seq, t.Turn, t.CallID, t.AgentID, t.Team, t.Rule, t.Action,
				t.Self.X, t.Self.Y, t.Health, t.Enemies, t.Allies, ts(at))
		}
		if tx != nil && (opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait) {
			commit()
		}
	}

	commit()
}
