// Package catalog provides the static simulation content: topics, team member
// personas, and the situations available under each topic. The content is
// embedded at build time and read-only.
package catalog

import (
	_ "embed"

	"github.com/tapilabs/leadsim/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var rawCatalog []byte

type catalog struct {
	Topics     []domain.Topic                `yaml:"topics"`
	Personas   []domain.Persona              `yaml:"personas"`
	Situations map[string][]domain.Situation `yaml:"situations"`
}

var data catalog

func init() {
	if err := yaml.Unmarshal(rawCatalog, &data); err != nil {
		panic("catalog: failed to parse embedded catalog: " + err.Error())
	}
}

// Topics returns all selectable topics in display order.
func Topics() []domain.Topic {
	return data.Topics
}

// Personas returns all team member personas in display order.
func Personas() []domain.Persona {
	return data.Personas
}

// TopicByID resolves a topic id against the catalog.
func TopicByID(id string) (domain.Topic, bool) {
	for _, t := range data.Topics {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Topic{}, false
}

// PersonaByID resolves a persona id against the catalog.
func PersonaByID(id string) (domain.Persona, bool) {
	for _, p := range data.Personas {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Persona{}, false
}

// SituationsForTopic returns the ordered situations under a topic.
// Unknown topics yield an empty list.
func SituationsForTopic(topicID string) []domain.Situation {
	return data.Situations[topicID]
}

// SituationByID resolves a situation id within a topic's partition.
// A situation id is only meaningful relative to its topic.
func SituationByID(topicID, id string) (domain.Situation, bool) {
	for _, s := range data.Situations[topicID] {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Situation{}, false
}
