package wizard

import (
	"errors"
	"testing"
)

// completedSession returns a session advanced to the given step with every
// selection that step requires already made.
func completedSession(t *testing.T, step int) *Session {
	t.Helper()
	sess := NewSession("test")

	if step >= StepTopic {
		if _, err := sess.Advance(); err != nil {
			t.Fatalf("Advance from intro failed: %v", err)
		}
		if err := sess.SelectTopic("role"); err != nil {
			t.Fatalf("SelectTopic failed: %v", err)
		}
	}
	if step >= StepPersona {
		mustAdvance(t, sess)
		if err := sess.SelectPersona("quiet"); err != nil {
			t.Fatalf("SelectPersona failed: %v", err)
		}
	}
	if step >= StepSituation {
		mustAdvance(t, sess)
		if err := sess.SelectSituation("role-1"); err != nil {
			t.Fatalf("SelectSituation failed: %v", err)
		}
	}
	if step >= StepAgenda {
		mustAdvance(t, sess)
	}
	if step >= StepChat {
		mustAdvance(t, sess)
	}
	if step >= StepReport {
		sess.appendExchange("hello", "hi there")
		mustAdvance(t, sess)
	}

	if got := sess.Step(); got != step {
		t.Fatalf("Expected step %d, got %d", step, got)
	}
	return sess
}

func mustAdvance(t *testing.T, sess *Session) {
	t.Helper()
	if _, err := sess.Advance(); err != nil {
		t.Fatalf("Advance from step %d failed: %v", sess.Step(), err)
	}
}

// appendExchange is a test helper that simulates one completed chat
// exchange without a backend.
func (s *Session) appendExchange(leaderText, memberText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript,
		turnOf(leaderText, true),
		turnOf(memberText, false),
	)
}

func TestAdvance_FromIntroIsUnconditional(t *testing.T) {
	sess := NewSession("test")

	step, err := sess.Advance()
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if step != StepTopic {
		t.Errorf("Expected step %d, got %d", StepTopic, step)
	}
}

func TestAdvance_BlockedWithoutPrecondition(t *testing.T) {
	tests := []struct {
		name string
		step int
	}{
		{"topic not selected", StepTopic},
		{"persona not selected", StepPersona},
		{"situation not selected", StepSituation},
		{"transcript empty", StepChat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := completedSession(t, tt.step)

			// Wipe the selection the step under test depends on.
			sess.mu.Lock()
			switch tt.step {
			case StepTopic:
				sess.topicID = ""
			case StepPersona:
				sess.personaID = ""
			case StepSituation:
				sess.situationID = ""
			case StepChat:
				sess.transcript = nil
			}
			sess.mu.Unlock()

			step, err := sess.Advance()
			if err == nil {
				t.Fatal("Expected a validation error, got nil")
			}
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("Expected ValidationError, got %T", err)
			}
			if validation.Reason == "" {
				t.Error("Expected a user-facing reason, got empty string")
			}
			if step != tt.step {
				t.Errorf("Expected step unchanged at %d, got %d", tt.step, step)
			}
		})
	}
}

func TestAdvance_SucceedsWithPrecondition(t *testing.T) {
	for _, step := range []int{StepTopic, StepPersona, StepSituation, StepAgenda, StepChat} {
		sess := completedSession(t, step)
		if step == StepChat {
			sess.appendExchange("hello", "hi")
		}

		got, err := sess.Advance()
		if err != nil {
			t.Fatalf("Advance from step %d failed: %v", step, err)
		}
		if got != step+1 {
			t.Errorf("Expected step %d, got %d", step+1, got)
		}
	}
}

func TestAdvance_CapsAtReport(t *testing.T) {
	sess := completedSession(t, StepReport)

	step, err := sess.Advance()
	if err != nil {
		t.Fatalf("Advance at the report step failed: %v", err)
	}
	if step != StepReport {
		t.Errorf("Expected step to stay at %d, got %d", StepReport, step)
	}
}

func TestRetreat_FloorsAtIntro(t *testing.T) {
	sess := NewSession("test")

	if step := sess.Retreat(); step != StepIntro {
		t.Errorf("Expected step %d, got %d", StepIntro, step)
	}

	sess = completedSession(t, StepPersona)
	if step := sess.Retreat(); step != StepTopic {
		t.Errorf("Expected step %d, got %d", StepTopic, step)
	}
}

func TestRestart_ClearsEverything(t *testing.T) {
	sess := completedSession(t, StepReport)
	sess.SetAgenda("talk about deadlines")
	sess.mu.Lock()
	sess.simulationID = "sim-42"
	sess.report = &fallbackTestReport
	sess.reportNotice = reportFailureNotice
	sess.mu.Unlock()

	sess.Restart()

	snap := sess.Snapshot()
	if snap.Step != StepIntro {
		t.Errorf("Expected step %d, got %d", StepIntro, snap.Step)
	}
	if snap.Topic != nil || snap.Persona != nil || snap.Situation != nil {
		t.Error("Expected all selections cleared")
	}
	if snap.Agenda != "" {
		t.Errorf("Expected empty agenda, got %q", snap.Agenda)
	}
	if len(snap.Transcript) != 0 {
		t.Errorf("Expected empty transcript, got %d turns", len(snap.Transcript))
	}
	if snap.SimulationID != "" {
		t.Errorf("Expected cleared simulation id, got %q", snap.SimulationID)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.report != nil || sess.reportNotice != "" || sess.reportFingerprint != 0 {
		t.Error("Expected report state cleared")
	}
}

func TestSelectTopic_ChangeClearsSituation(t *testing.T) {
	sess := NewSession("test")
	if err := sess.SelectTopic("role"); err != nil {
		t.Fatalf("SelectTopic failed: %v", err)
	}
	if err := sess.SelectSituation("role-1"); err != nil {
		t.Fatalf("SelectSituation failed: %v", err)
	}

	if err := sess.SelectTopic("communication"); err != nil {
		t.Fatalf("SelectTopic failed: %v", err)
	}

	if snap := sess.Snapshot(); snap.Situation != nil {
		t.Errorf("Expected situation cleared after topic change, got %q", snap.Situation.ID)
	}
}

func TestSelectTopic_ReselectKeepsSituation(t *testing.T) {
	sess := NewSession("test")
	if err := sess.SelectTopic("role"); err != nil {
		t.Fatalf("SelectTopic failed: %v", err)
	}
	if err := sess.SelectSituation("role-2"); err != nil {
		t.Fatalf("SelectSituation failed: %v", err)
	}

	if err := sess.SelectTopic("role"); err != nil {
		t.Fatalf("SelectTopic failed: %v", err)
	}

	snap := sess.Snapshot()
	if snap.Situation == nil || snap.Situation.ID != "role-2" {
		t.Error("Expected situation kept when the same topic is reselected")
	}
}

func TestSelectSituation_RequiresTopic(t *testing.T) {
	sess := NewSession("test")

	err := sess.SelectSituation("role-1")
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}

func TestSelect_UnknownIDsRejected(t *testing.T) {
	sess := NewSession("test")

	if err := sess.SelectTopic("nope"); err == nil {
		t.Error("Expected error for unknown topic")
	}
	if err := sess.SelectPersona("nope"); err == nil {
		t.Error("Expected error for unknown persona")
	}
	if err := sess.SelectTopic("role"); err != nil {
		t.Fatalf("SelectTopic failed: %v", err)
	}
	if err := sess.SelectSituation("comm-1"); err == nil {
		t.Error("Expected error for situation outside the topic's partition")
	}
}
