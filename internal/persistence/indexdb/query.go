package indexdb

import (
	"context"
	"database/sql"
)

type SessionSummary struct {
	SessionID string
	AgentID   string
	Transport string
	StartedAt string
	EndedAt   string
	Reason    string
	Winner    string
	Turns     int
	LastTurn  int
	Intel     int
}

type RuleCount struct {
	Rule  string
	Count int
}

// Sessions lists sessions newest first.
func (s *SQLiteIndex) Sessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT session_id,agent_id,transport,started_at,
		COALESCE(ended_at,''),COALESCE(reason,''),COALESCE(winner,''),turns,last_turn,intel
		FROM sessions ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var r SessionSummary
		if err := rows.Scan(&r.SessionID, &r.AgentID, &r.Transport, &r.StartedAt,
			&r.EndedAt, &r.Reason, &r.Winner, &r.Turns, &r.LastTurn, &r.Intel); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RuleCounts counts recorded turns by the rule that decided them. An empty sessionID
// counts across all sessions.
func (s *SQLiteIndex) RuleCounts(ctx context.Context, sessionID string) ([]RuleCount, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if sessionID == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT rule,COUNT(*) FROM turns GROUP BY rule ORDER BY COUNT(*) DESC, rule`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT rule,COUNT(*) FROM turns WHERE session_id=? GROUP BY rule ORDER BY COUNT(*) DESC, rule`, sessionID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RuleCount
	for rows.Next() {
		var r RuleCount
		if err := rows.Scan(&r.Rule, &r.Count); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
