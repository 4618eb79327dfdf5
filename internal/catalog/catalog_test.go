package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicsAndPersonasLoaded(t *testing.T) {
	require.Len(t, Topics(), 3)
	require.Len(t, Personas(), 3)

	for _, topic := range Topics() {
		assert.NotEmpty(t, topic.ID)
		assert.NotEmpty(t, topic.Label)
		assert.NotEmpty(t, topic.Description)
	}
	for _, persona := range Personas() {
		assert.NotEmpty(t, persona.ID)
		assert.NotEmpty(t, persona.Name)
		assert.NotEmpty(t, persona.DisplayName)
	}
}

func TestTopicByID(t *testing.T) {
	topic, ok := TopicByID("role")
	require.True(t, ok)
	assert.Equal(t, "Understanding the Leader Role", topic.Label)

	_, ok = TopicByID("unknown")
	assert.False(t, ok)
}

func TestPersonaByID(t *testing.T) {
	persona, ok := PersonaByID("quiet")
	require.True(t, ok)
	assert.Equal(t, "Seoyeon Kim", persona.DisplayName)

	_, ok = PersonaByID("unknown")
	assert.False(t, ok)
}

func TestEveryTopicHasSituations(t *testing.T) {
	for _, topic := range Topics() {
		situations := SituationsForTopic(topic.ID)
		require.NotEmptyf(t, situations, "topic %s has no situations", topic.ID)
		for _, s := range situations {
			assert.NotEmpty(t, s.ID)
			assert.NotEmpty(t, s.Title)
		}
	}
}

func TestSituationByID_ScopedToTopic(t *testing.T) {
	_, ok := SituationByID("role", "role-1")
	assert.True(t, ok)

	// A situation id only resolves inside its own topic.
	_, ok = SituationByID("communication", "role-1")
	assert.False(t, ok)

	_, ok = SituationByID("unknown", "role-1")
	assert.False(t, ok)
}

func TestSituationsForUnknownTopicIsEmpty(t *testing.T) {
	assert.Empty(t, SituationsForTopic("unknown"))
}
