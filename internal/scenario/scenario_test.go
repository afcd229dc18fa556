package scenario

import "testing"

func TestNormalizedDefaults(t *testing.T) {
	sc := Scenario{}.Normalized()

	if sc.EmotionalState != "neutral" {
		t.Errorf("expected neutral emotion, got %q", sc.EmotionalState)
	}
	if sc.Knowledge != KnowledgeMedium {
		t.Errorf("expected medium knowledge, got %q", sc.Knowledge)
	}
	if sc.Concerns == nil {
		t.Error("concerns must default to an empty slice")
	}
	if sc.Style != "friendly" {
		t.Errorf("expected friendly style, got %q", sc.Style)
	}
	if sc.InitialMessage == "" {
		t.Error("initial message must get a fallback")
	}
}

func TestNormalizedKeepsExplicitValues(t *testing.T) {
	sc := Scenario{
		EmotionalState: "scared",
		Knowledge:      KnowledgeHigh,
		Style:          "formal",
		InitialMessage: "Добрый день.",
		Concerns:       []string{"Боюсь боли"},
	}.Normalized()

	if sc.EmotionalState != "scared" || sc.Knowledge != KnowledgeHigh ||
		sc.Style != "formal" || sc.InitialMessage != "Добрый день." {
		t.Errorf("explicit fields must survive normalization: %+v", sc)
	}
}

func TestNormalizedRejectsUnknownKnowledge(t *testing.T) {
	sc := Scenario{Knowledge: "expert"}.Normalized()
	if sc.Knowledge != KnowledgeMedium {
		t.Errorf("unknown knowledge level falls back to medium, got %q", sc.Knowledge)
	}
}

func TestLowKnowledge(t *testing.T) {
	if !(Scenario{Knowledge: KnowledgeLow}).LowKnowledge() {
		t.Error("low knowledge should report true")
	}
	if (Scenario{}.Normalized()).LowKnowledge() {
		t.Error("default knowledge is medium, not low")
	}
}
