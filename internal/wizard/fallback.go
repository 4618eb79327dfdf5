package wizard

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tapilabs/leadsim/internal/domain"
)

// Length tiers for the locally synthesized commentary, in characters of the
// last leader message.
const (
	longReplyThreshold   = 600
	mediumReplyThreshold = 250
)

// Tier commentary embedded in the fallback summary.
const (
	longReplyComment   = "the response lays out your thinking and plan in real detail."
	mediumReplyComment = "the response has a solid length and captures the essentials."
	shortReplyComment  = "the response is on the short side; spelling out your intent and concrete next steps would make it stronger."
)

// Defaults used when the backend report omits a field.
const (
	defaultStrength    = "You made an effort to understand the team member's perspective and feelings."
	defaultImprovement = "Before the next conversation, prepare two or three more concrete questions to ask."
	defaultCoachNote   = "Looking back on this conversation, write down three to five sentences you could use verbatim in a real one-on-one."
)

func defaultSummary(topic domain.Topic, situation domain.Situation) string {
	return fmt.Sprintf("A simulation of the %q situation under the %q topic.", situation.Title, topic.Label)
}

// lengthCommentary classifies the last leader message by character length.
func lengthCommentary(lastUserMessage string) string {
	length := utf8.RuneCountInString(strings.TrimSpace(lastUserMessage))
	switch {
	case length > longReplyThreshold:
		return longReplyComment
	case length > mediumReplyThreshold:
		return mediumReplyComment
	default:
		return shortReplyComment
	}
}

// fallbackReport synthesizes a report locally when the backend call fails.
// It is a template, not an assessment: the strengths and improvements are
// fixed, and only the summary commentary varies with the length of the
// last leader message.
func fallbackReport(topic domain.Topic, persona domain.Persona, situation domain.Situation, lastUserMessage, lastCoachReply string) domain.Report {
	summary := fmt.Sprintf(
		"A simulation of the %q situation under the %q topic, preparing a conversation with the %s persona. Overall, %s",
		situation.Title, topic.Label, persona.Name, lengthCommentary(lastUserMessage),
	)

	coachNote := lastCoachReply
	if coachNote == "" {
		coachNote = "Turn this answer into a three-to-five sentence script you could use in the actual conversation. Over time it can grow into a leadership principle you apply whenever this situation repeats."
	}

	return domain.Report{
		Summary: summary,
		Strengths: []string{
			"You showed consideration for the team member's position and feelings.",
			"You tried to frame the situation and point a direction as the leader.",
			"You leaned toward finding a solution together rather than dictating one.",
		},
		Improvements: []string{
			"Write down two or three concrete questions (what to ask, and how) you could use in the real conversation.",
			"Put the standards you hold as a leader into words once more, so the team member hears them clearly.",
			"Add a line or two about follow-up after the conversation: a check-in, further feedback, or encouragement.",
		},
		CoachNote: coachNote,
	}
}
