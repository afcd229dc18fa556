package engine

import (
	"math/rand"
	"strings"
	"time"

	"github.com/proftrain/patientsim/internal/scenario"
)

// Engine drives one persona for one session. It is single-threaded by
// design: each session owns its engine and nothing is shared across
// sessions, so there is no locking here. Every call returns a usable result;
// malformed input is a response path, not an error.
type Engine struct {
	scenario scenario.Scenario
	analyzer Analyzer
	state    *State
	know     *Knowledge
	composer *Composer

	turns        []Turn
	traineeTurns int

	rng *rand.Rand
	now func() time.Time
}

// Option adjusts engine construction, mainly for tests.
type Option func(*Engine)

// WithRand injects the random source used for phrase decks and the objection
// roll, making reply selection reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithClock injects the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithAnalyzer swaps the message analyzer.
func WithAnalyzer(a Analyzer) Option {
	return func(e *Engine) { e.analyzer = a }
}

// New builds an engine for a normalized copy of the scenario.
func New(sc scenario.Scenario, opts ...Option) *Engine {
	sc = sc.Normalized()
	e := &Engine{
		scenario: sc,
		know:     NewKnowledge(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.analyzer == nil {
		e.analyzer = NewAnalyzer(sc.Concerns)
	}
	e.state = NewState(ParseEmotion(sc.EmotionalState))
	e.composer = NewComposer(e.rng)
	return e
}

// Scenario returns the normalized scenario this engine runs.
func (e *Engine) Scenario() scenario.Scenario { return e.scenario }

// Greeting opens the session: the scenario's initial message, the persona's
// lead concern, and an opening question. Appended to the history as the
// first persona turn.
func (e *Engine) Greeting() string {
	var b strings.Builder
	b.WriteString(e.scenario.InitialMessage)
	if len(e.scenario.Concerns) > 0 {
		b.WriteString(" Меня больше всего волнует ")
		b.WriteString(strings.ToLower(e.scenario.Concerns[0]))
		b.WriteString(".")
	}
	b.WriteString(" ")
	b.WriteString(e.composer.Decks().Draw(questionPool(TopicTreatment)))

	greeting := b.String()
	e.appendPersona(greeting, TopicTreatment)
	return greeting
}

// Respond runs the full per-turn pipeline: analyze, update state and
// knowledge, recompute the phase, compose the reply, append both turns.
func (e *Engine) Respond(text string) Reply {
	e.traineeTurns++
	now := e.now()

	analysis := e.analyzer.Analyze(text, e.traineeTurns)
	e.turns = append(e.turns, Turn{
		Speaker:   SpeakerTrainee,
		Text:      text,
		Timestamp: now,
		Analysis:  &analysis,
	})

	e.state.Apply(analysis, e.traineeTurns, e.scenario.LowKnowledge())
	e.know.Observe(text, analysis, e.traineeTurns, now)
	e.know.UpdateStrategy(e.traineeTurns, e.state.Satisfaction, e.state.Trust)
	e.state.Phase = NextPhase(e.state.Phase, e.traineeTurns, e.state.Satisfaction, e.state.Trust)

	composed := e.composer.Compose(ComposeInput{
		Text:          text,
		Analysis:      analysis,
		State:         e.state,
		Know:          e.know,
		TraineeTurns:  e.traineeTurns,
		LowKnowledge:  e.scenario.LowKnowledge(),
		RecentTrainee: e.recentTraineeTexts(contradictionWindow),
	})

	e.appendPersona(composed.Text, composed.AskedTopic)

	return Reply{
		Message:      composed.Text,
		Emotion:      e.state.Emotion,
		Satisfaction: e.state.Satisfaction,
		Phase:        e.state.Phase,
	}
}

// Report computes the session analysis for the history so far.
func (e *Engine) Report() Report {
	return BuildReport(e.scenario, e.turns, e.state, e.know)
}

// History returns the append-only turn log.
func (e *Engine) History() []Turn { return e.turns }

// State exposes the current persona state (read-only use expected).
func (e *Engine) State() *State { return e.state }

// Knowledge exposes the session knowledge base (read-only use expected).
func (e *Engine) Knowledge() *Knowledge { return e.know }

func (e *Engine) appendPersona(text string, topic Topic) {
	now := e.now()
	e.turns = append(e.turns, Turn{Speaker: SpeakerPersona, Text: text, Timestamp: now})
	if strings.Contains(text, "?") {
		var topics []Topic
		if topic != "" {
			topics = []Topic{topic}
		}
		e.know.RecordPersonaQuestion(text, topics, now)
	}
}

func (e *Engine) recentTraineeTexts(n int) []string {
	var out []string
	for _, t := range e.turns {
		if t.Speaker == SpeakerTrainee {
			out = append(out, t.Text)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// TopicCount is one entry of the flattened topic-depth map, used at the
// persistence boundary where maps travel as explicit key/value lists.
type TopicCount struct {
	Topic Topic `json:"topic"`
	Depth int   `json:"depth"`
}

// Memento is the serializable session snapshot. Maps are flattened to lists;
// everything else is plain data.
type Memento struct {
	SessionID    string            `json:"session_id"`
	Scenario     scenario.Scenario `json:"scenario"`
	Turns        []Turn            `json:"turns"`
	Satisfaction int               `json:"satisfaction"`
	Trust        int               `json:"trust"`
	Anxiety      int               `json:"anxiety"`
	Emotion      Emotion           `json:"emotional_state"`
	Phase        Phase             `json:"phase"`
	Journey      []Emotion         `json:"journey"`
	TopicDepth   []TopicCount      `json:"topic_depth"`
	Traits       Traits            `json:"traits"`
	SavedAt      time.Time         `json:"saved_at"`
}

// Snapshot captures the engine's state for persistence.
func (e *Engine) Snapshot(sessionID string) Memento {
	depths := make([]TopicCount, 0, len(e.know.TopicDepth))
	for _, t := range AllTopics {
		if d := e.know.TopicDepth[t]; d > 0 {
			depths = append(depths, TopicCount{Topic: t, Depth: d})
		}
	}
	return Memento{
		SessionID:    sessionID,
		Scenario:     e.scenario,
		Turns:        e.turns,
		Satisfaction: e.state.Satisfaction,
		Trust:        e.state.Trust,
		Anxiety:      e.state.Anxiety,
		Emotion:      e.state.Emotion,
		Phase:        e.state.Phase,
		Journey:      e.state.Journey,
		TopicDepth:   depths,
		Traits:       e.know.Traits,
		SavedAt:      e.now(),
	}
}

// Resume rebuilds an engine from a snapshot. Derived counters (empathy
// streak, clarity, open questions) are replayed from the stored analyses so
// the restored session behaves like the original one.
func Resume(sc scenario.Scenario, m Memento, opts ...Option) *Engine {
	e := New(sc, opts...)
	e.turns = m.Turns
	for _, t := range m.Turns {
		if t.Speaker != SpeakerTrainee {
			continue
		}
		e.traineeTurns++
		if t.Analysis == nil {
			continue
		}
		a := *t.Analysis
		if a.HasEmpathy {
			e.state.empathyShown++
		}
		e.know.Observe(t.Text, a, e.traineeTurns, t.Timestamp)
	}
	// Authoritative fields come from the snapshot, not the replay.
	e.state.Satisfaction = m.Satisfaction
	e.state.Trust = m.Trust
	e.state.Anxiety = m.Anxiety
	e.state.Emotion = m.Emotion
	e.state.Phase = m.Phase
	if len(m.Journey) > 0 {
		e.state.Journey = m.Journey
	}
	e.know.TopicDepth = make(map[Topic]int, len(m.TopicDepth))
	for _, tc := range m.TopicDepth {
		e.know.TopicDepth[tc.Topic] = tc.Depth
	}
	e.know.Traits = m.Traits
	e.know.UpdateStrategy(e.traineeTurns, e.state.Satisfaction, e.state.Trust)
	return e
}
