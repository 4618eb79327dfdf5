package backend

import (
	"encoding/json"
	"time"
)

// VerifyRequest is the code-exchange payload for /access/verify.
type VerifyRequest struct {
	CompanyID    string `json:"company_id"`
	CampaignCode string `json:"campaign_code"`
	AccessCode   string `json:"access_code"`
}

// AccessGrant is the backend's answer to a successful code exchange.
type AccessGrant struct {
	AccessToken  string `json:"access_token"`
	CompanyID    string `json:"company_id"`
	CampaignCode string `json:"campaign_code"`
}

// ChatRequest is one user turn sent to /chat. SimulationID is nil on the
// first turn of a session; once the backend assigns one it must be sent
// unchanged on every subsequent turn.
type ChatRequest struct {
	Message      string  `json:"message"`
	Persona      string  `json:"persona"`
	SimulationID *string `json:"simulation_id"`
}

// ChatResponse carries the persona's reply and the session handle that ties
// all turns of one conversation together.
type ChatResponse struct {
	SimulationID string `json:"simulation_id"`
	Reply        string `json:"reply"`
}

// TopicRef, PersonaRef and SituationRef are the summaries of the wizard
// selections included in a report request.
type TopicRef struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type PersonaRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type SituationRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ReportTurn is a role-tagged transcript entry in a report request.
type ReportTurn struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

// ReportRequest is the full payload sent to /report.
type ReportRequest struct {
	CompanyID       string       `json:"company_id"`
	Topic           TopicRef     `json:"topic"`
	Persona         PersonaRef   `json:"persona"`
	Situation       SituationRef `json:"situation"`
	Agenda          string       `json:"agenda"`
	ChatHistory     []ReportTurn `json:"chatHistory"`
	LastUserMessage string       `json:"lastUserMessage"`
	LastCoachReply  string       `json:"lastCoachReply"`
}

// ReportResponse is the raw report answer. Strengths and Improvements are
// kept raw because the backend occasionally returns something other than a
// list; callers decide the fallback.
type ReportResponse struct {
	Summary      string          `json:"summary"`
	Strengths    json.RawMessage `json:"strengths"`
	Improvements json.RawMessage `json:"improvements"`
	CoachNote    string          `json:"coachNote"`
	Comment      string          `json:"comment"` // legacy alias for CoachNote
}

// StringList decodes a raw report field as a list of strings. ok is false
// when the field is absent or not a proper list.
func StringList(raw json.RawMessage) (items []string, ok bool) {
	if len(raw) == 0 {
		return nil, false
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// CompanyRequest is the admin payload for registering a company.
type CompanyRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
