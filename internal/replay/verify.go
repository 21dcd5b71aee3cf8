// Package replay re-decides journaled turns and reports where the engine now disagrees
// with what was recorded.
package replay

import (
	"skirmish.ai/internal/agent"
	"skirmish.ai/internal/protocol"
	"skirmish.ai/internal/session"
)

type Mismatch struct {
	SessionID string
	AgentID   string
	Turn      int
	Recorded  string
	Replayed  string
	Rule      string
}

type Report struct {
	Sessions   int
	Turns      int
	Mismatches []Mismatch
}

func (r Report) OK() bool { return len(r.Mismatches) == 0 }

type engineKey struct{ session, agent string }

// Verifier keeps one engine per (session, agent) so turn memory carries across records
// exactly as it did live. Records must arrive in journal order.
type Verifier struct {
	AgentID string // when set, other agents are skipped

	engines map[engineKey]*agent.Engine
	report  Report
}

func NewVerifier(agentID string) *Verifier {
	return &Verifier{AgentID: agentID, engines: map[engineKey]*agent.Engine{}}
}

// Check has the callback shape journal.ReadFile expects.
func (v *Verifier) Check(r session.TurnRecord) error {
	if v.AgentID != "" && r.AgentID != v.AgentID {
		return nil
	}
	k := engineKey{r.SessionID, r.AgentID}
	eng, ok := v.engines[k]
	if !ok {
		eng = agent.New(r.AgentID)
		v.engines[k] = eng
		v.report.Sessions++
	}

	state := protocol.DecodeGameState(r.Snapshot)
	eng.Observe(state)
	d := eng.Decide(state)
	v.report.Turns++
	if got := protocol.EncodeAction(d.Action); got != r.Action {
		v.report.Mismatches = append(v.report.Mismatches, Mismatch{
			SessionID: r.SessionID,
			AgentID:   r.AgentID,
			Turn:      r.Turn,
			Recorded:  r.Action,
			Replayed:  got,
			Rule:      d.Rule,
		})
	}
	return nil
}

func (v *Verifier) Report() Report { return v.report }
