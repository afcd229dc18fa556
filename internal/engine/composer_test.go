package engine

import (
	"math/rand"
	"strings"
	"testing"
)

func newTestComposer(seed int64) *Composer {
	return NewComposer(rand.New(rand.NewSource(seed)))
}

func plainInput() ComposeInput {
	return ComposeInput{
		Text:         "Расскажу вам про лечение.",
		Analysis:     Analysis{Sentiment: SentimentNeutral, ResponseQuality: 50},
		State:        NewState(EmotionNeutral),
		Know:         NewKnowledge(),
		TraineeTurns: 1,
	}
}

func TestComposeNonsenseTerminal(t *testing.T) {
	c := newTestComposer(1)
	in := plainInput()
	in.Analysis = Analysis{Nonsense: true}

	reply := c.Compose(in)
	if reply.Kind != "nonsense" {
		t.Fatalf("expected nonsense kind, got %s", reply.Kind)
	}
	if !containsPhrase(phrasePools[poolNonsense], reply.Text) {
		t.Errorf("reply not from the nonsense pool: %q", reply.Text)
	}
}

func TestComposeTooShortTerminal(t *testing.T) {
	c := newTestComposer(1)
	in := plainInput()
	in.Analysis = Analysis{TooShort: true}

	reply := c.Compose(in)
	if reply.Kind != "too_short" {
		t.Fatalf("expected too_short kind, got %s", reply.Kind)
	}
	if !containsPhrase(phrasePools[poolTooShort], reply.Text) {
		t.Errorf("reply not from the too-short pool: %q", reply.Text)
	}
}

func TestObjectionsEventuallyFire(t *testing.T) {
	c := newTestComposer(3)
	fired := false
	for i := 0; i < 100 && !fired; i++ {
		in := plainInput()
		in.TraineeTurns = 10
		if reply := c.Compose(in); reply.Kind == "objection" {
			fired = true
		}
	}
	if !fired {
		t.Error("a 25% objection chance should fire within 100 turns")
	}
}

func TestObjectionsSuppressedEarly(t *testing.T) {
	c := newTestComposer(3)
	for i := 0; i < 100; i++ {
		in := plainInput()
		in.TraineeTurns = objectionMinTurn
		if reply := c.Compose(in); reply.Kind == "objection" {
			t.Fatal("no objections during the opening turns")
		}
	}
}

func TestObjectionsSuppressedForWarmTrainee(t *testing.T) {
	c := newTestComposer(3)
	for i := 0; i < 100; i++ {
		in := plainInput()
		in.TraineeTurns = 10
		in.Know.Traits.Empathy = 80
		in.Know.Traits.Responsiveness = 80
		if reply := c.Compose(in); reply.Kind == "objection" {
			t.Fatal("high empathy and responsiveness must suppress objections")
		}
	}
}

func TestTraitReactionGates(t *testing.T) {
	c := newTestComposer(5)

	// Too early to judge.
	in := plainInput()
	in.TraineeTurns = minTurnsForJudgment - 1
	if got := c.traitReaction(in); got != "" {
		t.Errorf("no trait judgment before turn %d, got %q", minTurnsForJudgment, got)
	}

	// Cold trainee gets the coldness complaint.
	in.TraineeTurns = minTurnsForJudgment
	if got := c.traitReaction(in); !containsPhrase(phrasePools[poolColdness], got) {
		t.Errorf("expected coldness complaint, got %q", got)
	}

	// Warm trainee gets gratitude regardless of turn count.
	warm := plainInput()
	warm.TraineeTurns = 2
	warm.Know.Traits.Empathy = 70
	warm.Know.Traits.Responsiveness = 70
	if got := c.traitReaction(warm); !containsPhrase(phrasePools[poolGratitude], got) {
		t.Errorf("expected gratitude, got %q", got)
	}
}

func TestContradictionFiresOnce(t *testing.T) {
	c := newTestComposer(2)
	in := plainInput()
	in.RecentTrainee = []string{"Это совсем недорого.", "Честно скажу, это дорого."}

	first := c.contradiction(in)
	if first == "" {
		t.Fatal("expected a contradiction call-out")
	}
	if !strings.Contains(first, "недорого") || !strings.Contains(first, "дорого") {
		t.Errorf("call-out should quote both claims: %q", first)
	}

	if second := c.contradiction(in); second != "" {
		t.Errorf("each pair fires at most once per session, got %q", second)
	}
}

func TestContradictionNeedsBothClaims(t *testing.T) {
	c := newTestComposer(2)
	in := plainInput()
	// "недорого" twice: no conflict, and no substring match against "дорого".
	in.RecentTrainee = []string{"Это недорого.", "Повторю, это недорого."}

	if got := c.contradiction(in); got != "" {
		t.Errorf("consistent claims must not trigger, got %q", got)
	}
}

func TestContradictionFoldsYo(t *testing.T) {
	c := newTestComposer(2)
	in := plainInput()
	in.RecentTrainee = []string{"Процедура пройдёт быстро.", "Заживление идёт долго."}

	if got := c.contradiction(in); got == "" {
		t.Error("быстро/долго across turns should trigger despite ё spelling")
	}
}

func TestLiteralReactions(t *testing.T) {
	tests := []struct {
		name string
		text string
		pool string
	}{
		{"price figure", "Имплант стоит 45000 руб за единицу.", poolPriceReact},
		{"duration figure", "Приём займёт 40 мин, не дольше.", poolTimeReact},
		{"guarantee claim", "Я гарантирую вам отличный результат.", poolGuarantee},
		{"safety claim", "Это абсолютно безопасно.", poolSafety},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestComposer(4)
			in := plainInput()
			in.Text = tt.text
			got := c.literalReaction(in)
			if !containsPhrase(phrasePools[tt.pool], got) {
				t.Errorf("expected reply from %s, got %q", tt.pool, got)
			}
		})
	}
}

func TestSafetyReactionNeedsExactWord(t *testing.T) {
	c := newTestComposer(4)
	in := plainInput()
	// "небезопасно" must not read as a safety reassurance.
	in.Text = "Без подготовки это небезопасно."

	if got := c.literalReaction(in); got != "" {
		t.Errorf("an unsafe claim must not draw the safety pool, got %q", got)
	}
}

func TestJargonRephraseForLowKnowledge(t *testing.T) {
	c := newTestComposer(4)
	in := plainInput()
	in.Text = "Проведем диагностику, затем терапию."
	in.Analysis.IsTechnical = true
	in.LowKnowledge = true

	if got := c.literalReaction(in); !containsPhrase(phrasePools[poolRephrase], got) {
		t.Errorf("expected a rephrase request, got %q", got)
	}
}

func TestPhaseClauses(t *testing.T) {
	c := newTestComposer(6)

	in := plainInput()
	in.State.Phase = PhaseInitial
	text, topic := c.phaseClause(in)
	if topic != TopicTreatment {
		t.Errorf("fresh session asks about the first topic, got %s", topic)
	}
	if !strings.Contains(text, "?") {
		t.Errorf("topic question should be a question: %q", text)
	}

	in.State.Phase = PhaseNegotiation
	in.State.Satisfaction = 70
	if text, _ := c.phaseClause(in); !containsPhrase(phrasePools[poolAccepting], text) {
		t.Errorf("satisfied negotiation should accept, got %q", text)
	}
	in.State.Satisfaction = 40
	if text, _ := c.phaseClause(in); !containsPhrase(phrasePools[poolWavering], text) {
		t.Errorf("unsatisfied negotiation should waver, got %q", text)
	}

	in.State.Phase = PhaseDecision
	if text, _ := c.phaseClause(in); !containsPhrase(phrasePools[poolReadiness], text) {
		t.Errorf("decision phase should signal readiness, got %q", text)
	}

	in.State.Phase = PhaseClosing
	in.State.Satisfaction = 70
	if text, _ := c.phaseClause(in); !containsPhrase(phrasePools[poolCloseYes], text) {
		t.Errorf("satisfied closing should accept, got %q", text)
	}
	in.State.Satisfaction = 40
	if text, _ := c.phaseClause(in); !containsPhrase(phrasePools[poolCloseNo], text) {
		t.Errorf("unsatisfied closing should decline, got %q", text)
	}
}

func TestComposeFillerFallback(t *testing.T) {
	c := newTestComposer(8)
	in := plainInput()
	in.Text = "Понятно." // no figures, no claims
	in.Analysis = Analysis{Sentiment: SentimentNeutral}
	for _, topic := range AllTopics {
		in.Know.TopicDepth[topic] = 1
	}
	in.Know.Strategy = Strategy{}

	reply := c.Compose(in)
	if reply.Kind != "composed" {
		t.Fatalf("expected composed kind, got %s", reply.Kind)
	}
	if !containsPhrase(phrasePools[poolFiller], reply.Text) {
		t.Errorf("with nothing to say the persona uses a filler, got %q", reply.Text)
	}
}

func containsPhrase(pool []string, s string) bool {
	for _, p := range pool {
		if p == s {
			return true
		}
	}
	return false
}
