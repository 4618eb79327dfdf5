// Package domain contains core domain types for the simulator.
package domain

// Topic is a leadership theme selectable at the first wizard step.
type Topic struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
}

// Persona is a simulated team member profile. The ID doubles as the persona
// key the backend uses to flavor chat replies.
type Persona struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	DisplayName string   `json:"displayName" yaml:"display_name"`
	Position    string   `json:"position" yaml:"position"`
	Avatar      string   `json:"avatar" yaml:"avatar"`
	Tags        []string `json:"tags" yaml:"tags"`
	Description string   `json:"description" yaml:"description"`
	Tagline     string   `json:"tagline" yaml:"tagline"`
}

// Situation is a concrete scenario under a topic.
type Situation struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Detail string `json:"detail" yaml:"detail"`
}
