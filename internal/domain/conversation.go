package domain

import (
	"time"
)

// Role identifies who spoke a transcript turn.
type Role string

const (
	// RoleLeader is the practicing leader (the user).
	RoleLeader Role = "leader"
	// RoleMember is the simulated team member persona.
	RoleMember Role = "member"
)

// Turn is a single transcript entry.
type Turn struct {
	From Role      `json:"from"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

// Transcript is the ordered, append-only conversation history of one
// wizard session.
type Transcript []Turn

// LastByRole returns the most recent turn spoken by role, scanning from
// the end.
func (t Transcript) LastByRole(role Role) (Turn, bool) {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].From == role {
			return t[i], true
		}
	}
	return Turn{}, false
}

// LastLeaderText returns the text of the most recent leader turn, or "".
func (t Transcript) LastLeaderText() string {
	if turn, ok := t.LastByRole(RoleLeader); ok {
		return turn.Text
	}
	return ""
}

// LastMemberText returns the text of the most recent member turn, or "".
func (t Transcript) LastMemberText() string {
	if turn, ok := t.LastByRole(RoleMember); ok {
		return turn.Text
	}
	return ""
}

// Report is the coaching feedback shown at the final wizard step. It is
// produced by the backend, or synthesized locally when the backend fails.
type Report struct {
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	CoachNote    string   `json:"coachNote"`
}
