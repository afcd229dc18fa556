package scenario

// KnowledgeLevel describes how much domain vocabulary the persona understands.
type KnowledgeLevel string

const (
	KnowledgeLow    KnowledgeLevel = "low"
	KnowledgeMedium KnowledgeLevel = "medium"
	KnowledgeHigh   KnowledgeLevel = "high"
)

// Scenario configures one simulated persona: who they are, what brought them
// in, and what the trainee is supposed to achieve in the conversation.
type Scenario struct {
	ID             string         `json:"id,omitempty"`
	Title          string         `json:"title,omitempty"`
	Role           string         `json:"role"`
	Situation      string         `json:"situation"`
	Goal           string         `json:"goal"`
	Objectives     []string       `json:"objectives,omitempty"`
	Character      string         `json:"character,omitempty"`
	InitialMessage string         `json:"initial_message"`
	EmotionalState string         `json:"emotional_state"`
	Knowledge      KnowledgeLevel `json:"knowledge"`
	Concerns       []string       `json:"concerns"`
	Style          string         `json:"communication_style"`
}

// Normalized returns a copy with safe defaults substituted for missing
// fields. The engine never rejects a scenario; it degrades instead.
func (s Scenario) Normalized() Scenario {
	if s.EmotionalState == "" {
		s.EmotionalState = "neutral"
	}
	switch s.Knowledge {
	case KnowledgeLow, KnowledgeMedium, KnowledgeHigh:
	default:
		s.Knowledge = KnowledgeMedium
	}
	if s.Concerns == nil {
		s.Concerns = []string{}
	}
	if s.Style == "" {
		s.Style = "friendly"
	}
	if s.InitialMessage == "" {
		s.InitialMessage = "Здравствуйте! Мне нужна ваша консультация."
	}
	return s
}

// LowKnowledge reports whether the persona should be confused by jargon.
func (s Scenario) LowKnowledge() bool {
	return s.Knowledge == KnowledgeLow
}
