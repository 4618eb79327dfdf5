package wizard

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/tapilabs/leadsim/internal/backend"
	"github.com/tapilabs/leadsim/internal/domain"
)

// Messages shown in place of a persona reply.
const (
	emptyReplyPlaceholder  = "The reply could not be loaded."
	failedReplyPlaceholder = "The connection to the server is unstable, so a reply could not be fetched right now."
)

const reportFailureNotice = "Something went wrong while generating the report. A locally generated summary is shown instead."

// Backend is the subset of the remote client the wizard uses.
type Backend interface {
	Chat(ctx context.Context, req backend.ChatRequest) (*backend.ChatResponse, error)
	GenerateReport(ctx context.Context, req backend.ReportRequest) (*backend.ReportResponse, error)
}

// Service runs the network-backed wizard operations: chat turns and report
// generation. Pure state transitions live on Session; this is everything
// that talks to the backend.
type Service struct {
	backend   Backend
	companyID string
}

// NewService creates a wizard service. companyID is the tenant identifier
// included in report payloads.
func NewService(b Backend, companyID string) *Service {
	return &Service{backend: b, companyID: companyID}
}

// SendTurn appends the leader's message to the transcript, asks the backend
// for the persona's reply, and appends it as a member turn. The leader turn
// is recorded before the network call; a failed call still appends a member
// turn carrying a fixed apology, so every exchange grows the transcript by
// exactly two entries in leader-then-member order.
func (svc *Service) SendTurn(ctx context.Context, sess *Session, text string) (domain.Turn, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.Turn{}, validationf("Type a message before sending.")
	}

	sess.mu.Lock()
	if sess.chatPending {
		sess.mu.Unlock()
		return domain.Turn{}, validationf("A reply is still on its way. Wait for it before sending again.")
	}
	_, persona, _, ok := sess.selections()
	if !ok {
		sess.mu.Unlock()
		return domain.Turn{}, validationf("Select a topic, a team member persona, and a situation first.")
	}

	sess.transcript = append(sess.transcript, domain.Turn{
		From: domain.RoleLeader,
		Text: trimmed,
		Time: time.Now(),
	})
	sess.chatPending = true
	sess.touch()

	var simulationID *string
	if sess.simulationID != "" {
		id := sess.simulationID
		simulationID = &id
	}
	sess.mu.Unlock()

	resp, err := svc.backend.Chat(ctx, backend.ChatRequest{
		Message:      trimmed,
		Persona:      persona.ID,
		SimulationID: simulationID,
	})

	sess.mu.Lock()
	defer sess.mu.Unlock()
	defer func() { sess.chatPending = false }()
	sess.touch()

	member := domain.Turn{From: domain.RoleMember, Time: time.Now()}
	if err != nil {
		slog.Error("Chat turn failed", "session_id", sess.ID, "persona", persona.ID, "error", err)
		member.Text = failedReplyPlaceholder
	} else {
		// Adopt the backend's session handle on the first successful
		// exchange only; later responses never overwrite it.
		if sess.simulationID == "" && resp.SimulationID != "" {
			sess.simulationID = resp.SimulationID
		}
		member.Text = resp.Reply
		if member.Text == "" {
			member.Text = emptyReplyPlaceholder
		}
	}
	sess.transcript = append(sess.transcript, member)
	return member, nil
}

// ReportState is what the report step shows: a report when one is
// available, and a degraded-mode notice when it came from the local
// fallback instead of the backend.
type ReportState struct {
	Report   *domain.Report `json:"report"`
	Notice   string         `json:"notice,omitempty"`
	Degraded bool           `json:"degraded"`
}

// Report produces the coaching report for the final step. With the
// preconditions unmet (selections incomplete or transcript empty) it clears
// any previous report and returns an empty state without calling the
// backend. Results are cached against a fingerprint of the inputs, so
// asking again with nothing changed does not re-hit the backend. A failed
// backend call sets the degraded notice and substitutes the local fallback
// report.
func (svc *Service) Report(ctx context.Context, sess *Session) (ReportState, error) {
	sess.mu.Lock()
	sess.touch()

	if sess.step != StepReport {
		sess.mu.Unlock()
		return ReportState{}, validationf("The report becomes available on the final step.")
	}

	topic, persona, situation, ok := sess.selections()
	if !ok || len(sess.transcript) == 0 {
		sess.report = nil
		sess.reportNotice = ""
		sess.reportFingerprint = 0
		sess.mu.Unlock()
		return ReportState{}, nil
	}

	fp := fingerprint(sess.topicID, sess.personaID, sess.situationID, sess.agenda, len(sess.transcript))
	if sess.report != nil && fp == sess.reportFingerprint {
		state := ReportState{Report: sess.report, Notice: sess.reportNotice, Degraded: sess.reportNotice != ""}
		sess.mu.Unlock()
		return state, nil
	}

	req := backend.ReportRequest{
		CompanyID: svc.companyID,
		Topic:     backend.TopicRef{ID: topic.ID, Label: topic.Label},
		Persona:   backend.PersonaRef{ID: persona.ID, Name: persona.Name, DisplayName: persona.DisplayName},
		Situation: backend.SituationRef{ID: situation.ID, Title: situation.Title},
		Agenda:    sess.agenda,
	}
	for _, turn := range sess.transcript {
		req.ChatHistory = append(req.ChatHistory, backend.ReportTurn{
			Role: string(turn.From),
			Text: turn.Text,
			Time: turn.Time,
		})
	}
	req.LastUserMessage = sess.transcript.LastLeaderText()
	req.LastCoachReply = sess.transcript.LastMemberText()
	sess.mu.Unlock()

	resp, err := svc.backend.GenerateReport(ctx, req)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touch()

	var report domain.Report
	var notice string
	if err != nil {
		slog.Error("Report generation failed", "session_id", sess.ID, "error", err)
		notice = reportFailureNotice
		report = fallbackReport(topic, persona, situation, req.LastUserMessage, req.LastCoachReply)
	} else {
		report = reportFromResponse(resp, topic, situation)
	}

	sess.report = &report
	sess.reportNotice = notice
	sess.reportFingerprint = fp
	return ReportState{Report: &report, Notice: notice, Degraded: notice != ""}, nil
}

// reportFromResponse maps a backend report onto the domain type, filling
// every absent field with a fixed default.
func reportFromResponse(resp *backend.ReportResponse, topic domain.Topic, situation domain.Situation) domain.Report {
	report := domain.Report{
		Summary:   resp.Summary,
		CoachNote: resp.CoachNote,
	}
	if report.Summary == "" {
		report.Summary = defaultSummary(topic, situation)
	}
	if items, ok := backend.StringList(resp.Strengths); ok {
		report.Strengths = items
	} else {
		report.Strengths = []string{defaultStrength}
	}
	if items, ok := backend.StringList(resp.Improvements); ok {
		report.Improvements = items
	} else {
		report.Improvements = []string{defaultImprovement}
	}
	if report.CoachNote == "" {
		report.CoachNote = resp.Comment
	}
	if report.CoachNote == "" {
		report.CoachNote = defaultCoachNote
	}
	return report
}

// fingerprint keys report recomputation on the inputs that matter:
// the three selections, the agenda, and the transcript length.
func fingerprint(topicID, personaID, situationID, agenda string, transcriptLen int) uint64 {
	h := xxhash.New()
	for _, part := range []string{topicID, personaID, situationID, agenda, strconv.Itoa(transcriptLen)} {
		_, _ = h.WriteString(part)
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}
