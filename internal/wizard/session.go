// Package wizard implements the guided simulation flow: a seven-step state
// machine from topic selection through the coaching report, with the chat
// exchange and report generation that happen along the way.
package wizard

import (
	"fmt"
	"sync"
	"time"

	"github.com/tapilabs/leadsim/internal/catalog"
	"github.com/tapilabs/leadsim/internal/domain"
)

// Wizard steps. The flow starts at the intro screen and caps at the report.
const (
	StepIntro     = 0
	StepTopic     = 1
	StepPersona   = 2
	StepSituation = 3
	StepAgenda    = 4
	StepChat      = 5
	StepReport    = 6
)

// ValidationError is a blocked transition or rejected input. The message is
// meant to be shown to the user as-is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Session holds all state of one wizard run: the current step, the catalog
// selections, the agenda note, the chat transcript, the backend simulation
// handle, and the last report. All of it lives in memory and is destroyed
// on restart.
type Session struct {
	ID string

	mu                sync.Mutex
	step              int
	topicID           string
	personaID         string
	situationID       string
	agenda            string
	transcript        domain.Transcript
	simulationID      string
	chatPending       bool
	report            *domain.Report
	reportNotice      string
	reportFingerprint uint64
	lastActive        time.Time
}

// NewSession creates a session at the intro step.
func NewSession(id string) *Session {
	return &Session{ID: id, lastActive: time.Now()}
}

// Step returns the current step.
func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Advance moves one step forward if the current step's precondition holds.
// On failure the step is unchanged and a ValidationError describes what is
// missing. Advancing from the final step is a no-op.
func (s *Session) Advance() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	switch s.step {
	case StepIntro, StepAgenda:
		// Unconditional: the intro just starts the flow, the agenda is optional.
	case StepTopic:
		if _, ok := catalog.TopicByID(s.topicID); !ok {
			return s.step, validationf("Select a topic before moving on.")
		}
	case StepPersona:
		if _, ok := catalog.PersonaByID(s.personaID); !ok {
			return s.step, validationf("Select a team member persona before moving on.")
		}
	case StepSituation:
		if _, ok := catalog.SituationByID(s.topicID, s.situationID); !ok {
			return s.step, validationf("Select a situation before moving on.")
		}
	case StepChat:
		if len(s.transcript) == 0 {
			return s.step, validationf("Run the simulation chat at least once before moving on.")
		}
	case StepReport:
		return s.step, nil
	}

	if s.step < StepReport {
		s.step++
	}
	return s.step, nil
}

// Retreat moves one step back, flooring at the intro. No precondition.
func (s *Session) Retreat() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.step > StepIntro {
		s.step--
	}
	return s.step
}

// Restart returns the session to its initial state: step 0 and every
// selection, the agenda, the transcript, the simulation handle, and any
// report state cleared.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.step = StepIntro
	s.topicID = ""
	s.personaID = ""
	s.situationID = ""
	s.agenda = ""
	s.transcript = nil
	s.simulationID = ""
	s.chatPending = false
	s.report = nil
	s.reportNotice = ""
	s.reportFingerprint = 0
}

// SelectTopic records the topic choice. Changing the topic invalidates a
// previously chosen situation: situation ids are only meaningful within
// their topic's partition.
func (s *Session) SelectTopic(id string) error {
	if _, ok := catalog.TopicByID(id); !ok {
		return validationf("Unknown topic %q.", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.topicID != id {
		s.situationID = ""
	}
	s.topicID = id
	return nil
}

// SelectPersona records the persona choice.
func (s *Session) SelectPersona(id string) error {
	if _, ok := catalog.PersonaByID(id); !ok {
		return validationf("Unknown persona %q.", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.personaID = id
	return nil
}

// SelectSituation records the situation choice within the selected topic.
func (s *Session) SelectSituation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if _, ok := catalog.TopicByID(s.topicID); !ok {
		return validationf("Select a topic before choosing a situation.")
	}
	if _, ok := catalog.SituationByID(s.topicID, id); !ok {
		return validationf("Unknown situation %q for the selected topic.", id)
	}

	s.situationID = id
	return nil
}

// SetAgenda records the free-text agenda note. The agenda is optional and
// never validated.
func (s *Session) SetAgenda(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.agenda = text
}

// SimulationID returns the backend session handle, or "" before the first
// successful chat exchange.
func (s *Session) SimulationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simulationID
}

// Transcript returns a copy of the conversation history.
func (s *Session) Transcript() domain.Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(domain.Transcript, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// LastActive returns when the session was last touched. Used by the
// idle sweeper.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Snapshot is the session state as shown to the client shell.
type Snapshot struct {
	Step         int               `json:"step"`
	Topic        *domain.Topic     `json:"topic,omitempty"`
	Persona      *domain.Persona   `json:"persona,omitempty"`
	Situation    *domain.Situation `json:"situation,omitempty"`
	Agenda       string            `json:"agenda"`
	Transcript   []domain.Turn     `json:"transcript"`
	SimulationID string            `json:"simulation_id,omitempty"`
	ChatPending  bool              `json:"chat_pending"`
}

// Snapshot returns the resolved session state. Selections that no longer
// resolve against the catalog are reported as unselected.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Step:         s.step,
		Agenda:       s.agenda,
		Transcript:   append([]domain.Turn(nil), s.transcript...),
		SimulationID: s.simulationID,
		ChatPending:  s.chatPending,
	}
	if topic, ok := catalog.TopicByID(s.topicID); ok {
		snap.Topic = &topic
	}
	if persona, ok := catalog.PersonaByID(s.personaID); ok {
		snap.Persona = &persona
	}
	if situation, ok := catalog.SituationByID(s.topicID, s.situationID); ok {
		snap.Situation = &situation
	}
	return snap
}

// touch must be called with s.mu held.
func (s *Session) touch() {
	s.lastActive = time.Now()
}

// selections resolves the three catalog selections. Must be called with
// s.mu held.
func (s *Session) selections() (domain.Topic, domain.Persona, domain.Situation, bool) {
	topic, ok1 := catalog.TopicByID(s.topicID)
	persona, ok2 := catalog.PersonaByID(s.personaID)
	situation, ok3 := catalog.SituationByID(s.topicID, s.situationID)
	return topic, persona, situation, ok1 && ok2 && ok3
}
