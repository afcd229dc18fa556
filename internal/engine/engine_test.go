package engine

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/proftrain/patientsim/internal/scenario"
)

func testScenario() scenario.Scenario {
	return scenario.Scenario{
		ID:             "implant-consult",
		Title:          "Консультация по имплантации",
		Role:           "Пациентка, 45 лет",
		Goal:           "записать пациента на имплантацию",
		Objectives:     []string{"рассказать про стоимость"},
		InitialMessage: "Здравствуйте, я хотела узнать про имплантацию.",
		EmotionalState: "nervous",
		Knowledge:      scenario.KnowledgeLow,
		Concerns:       []string{"Боюсь боли"},
	}
}

func testEngine(seed int64) *Engine {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	calls := 0
	return New(testScenario(),
		WithRand(rand.New(rand.NewSource(seed))),
		WithClock(func() time.Time {
			calls++
			return base.Add(time.Duration(calls) * time.Minute)
		}))
}

func TestGreeting(t *testing.T) {
	e := testEngine(1)
	greeting := e.Greeting()

	if !strings.Contains(greeting, "Здравствуйте, я хотела узнать про имплантацию.") {
		t.Errorf("greeting should start with the scenario opener: %q", greeting)
	}
	if !strings.Contains(greeting, "боюсь боли") {
		t.Errorf("greeting should voice the lead concern: %q", greeting)
	}
	if !strings.Contains(greeting, "?") {
		t.Errorf("greeting should end with an opening question: %q", greeting)
	}
	fromTreatmentPool := false
	for _, p := range phrasePools[questionPool(TopicTreatment)] {
		if strings.HasSuffix(greeting, p) {
			fromTreatmentPool = true
		}
	}
	if !fromTreatmentPool {
		t.Errorf("the opening question comes from the treatment pool: %q", greeting)
	}
	if len(e.History()) != 1 || e.History()[0].Speaker != SpeakerPersona {
		t.Errorf("greeting must be logged as the first persona turn")
	}
	if len(e.Knowledge().OpenQuestions) != 1 {
		t.Errorf("the opening question should be recorded as open")
	}
}

func TestEmpathicConversationImprovesState(t *testing.T) {
	e := testEngine(2)
	e.Greeting()

	messages := []string{
		"Понимаю ваши переживания, не волнуйтесь, я обязательно вам помогу и всё расскажу.",
		"Это нормально, многие пациенты сначала боятся боли. Анестезия работает хорошо.",
		"Не переживайте, мы всё сделаем аккуратно. Что вас волнует больше всего?",
	}
	var last Reply
	for _, msg := range messages {
		last = e.Respond(msg)
	}

	if last.Satisfaction < 70 {
		t.Errorf("three empathetic turns should lift satisfaction to 70+, got %d", last.Satisfaction)
	}
	if last.Phase != PhaseExploration {
		t.Errorf("expected exploration after 3 turns, got %s", last.Phase)
	}
	if e.State().Trust <= 30 {
		t.Errorf("trust should grow, got %d", e.State().Trust)
	}
	if e.State().Anxiety >= 60 {
		t.Errorf("anxiety should drop from 60, got %d", e.State().Anxiety)
	}
}

func TestNonsenseTurn(t *testing.T) {
	e := testEngine(3)
	e.Greeting()

	reply := e.Respond("asdfgh")

	if !containsPhrase(phrasePools[poolNonsense], reply.Message) {
		t.Errorf("nonsense should draw from the nonsense pool: %q", reply.Message)
	}
	if reply.Satisfaction != 25 {
		t.Errorf("expected satisfaction 25, got %d", reply.Satisfaction)
	}
	if reply.Emotion != EmotionConfused {
		t.Errorf("nonsense should confuse a nervous persona, got %s", reply.Emotion)
	}
}

func TestTooShortTurn(t *testing.T) {
	e := testEngine(3)
	e.Greeting()
	e.Respond("Здравствуйте! Рад помочь вам с этим вопросом.")

	reply := e.Respond("ну да")

	if !containsPhrase(phrasePools[poolTooShort], reply.Message) {
		t.Errorf("short replies should draw from the too-short pool: %q", reply.Message)
	}
}

func TestRepliesDoNotRepeatVerbatim(t *testing.T) {
	e := testEngine(4)
	e.Greeting()

	// Nonsense pool has 4 variants; 4 nonsense turns must all differ.
	seen := make(map[string]bool)
	for i := 0; i < len(phrasePools[poolNonsense]); i++ {
		reply := e.Respond("qwertyuiop")
		if seen[reply.Message] {
			t.Fatalf("verbatim repeat before pool exhaustion: %q", reply.Message)
		}
		seen[reply.Message] = true
	}
}

func TestDeterministicWithFixedSeed(t *testing.T) {
	messages := []string{
		"Понимаю ваши переживания, расскажу всё подробно.",
		"Лечение безопасно, имплант ставится за 40 мин.",
		"Стоимость от 30000 руб, есть рассрочка.",
	}

	run := func() []string {
		e := testEngine(99)
		out := []string{e.Greeting()}
		for _, m := range messages {
			out = append(out, e.Respond(m).Message)
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("replies diverge at %d:\n%q\n%q", i, a[i], b[i])
		}
	}
}

func TestSnapshotResumeRoundtrip(t *testing.T) {
	e := testEngine(5)
	e.Greeting()
	e.Respond("Понимаю ваши переживания, не волнуйтесь.")
	e.Respond("Лечение займёт 40 мин, это безопасно и не больно.")

	m := e.Snapshot("sess-1")
	if m.SessionID != "sess-1" {
		t.Fatalf("unexpected session id %q", m.SessionID)
	}
	if m.Scenario.ID != "implant-consult" {
		t.Errorf("snapshot must carry the scenario, got %q", m.Scenario.ID)
	}

	r := Resume(m.Scenario, m, WithRand(rand.New(rand.NewSource(5))))

	if r.State().Satisfaction != e.State().Satisfaction {
		t.Errorf("satisfaction: resumed %d, original %d", r.State().Satisfaction, e.State().Satisfaction)
	}
	if r.State().Trust != e.State().Trust {
		t.Errorf("trust: resumed %d, original %d", r.State().Trust, e.State().Trust)
	}
	if r.State().Emotion != e.State().Emotion {
		t.Errorf("emotion: resumed %s, original %s", r.State().Emotion, e.State().Emotion)
	}
	if r.State().Phase != e.State().Phase {
		t.Errorf("phase: resumed %s, original %s", r.State().Phase, e.State().Phase)
	}
	if len(r.History()) != len(e.History()) {
		t.Errorf("history: resumed %d turns, original %d", len(r.History()), len(e.History()))
	}
	if r.Knowledge().TopicDepth[TopicTreatment] != e.Knowledge().TopicDepth[TopicTreatment] {
		t.Errorf("topic depth lost in the roundtrip")
	}

	// The resumed session keeps running.
	reply := r.Respond("Есть ли у вас ещё вопросы по лечению?")
	if reply.Message == "" {
		t.Error("resumed engine must keep responding")
	}
}

func TestReportAfterConversation(t *testing.T) {
	e := testEngine(6)
	e.Greeting()
	e.Respond("Понимаю ваши переживания, я помогу вам, расскажу всё про лечение.")
	e.Respond("Могу записать вас на приём, стоимость расскажу на месте.")

	r := e.Report()

	if r.OverallScore <= 0 || r.OverallScore > 100 {
		t.Errorf("overall score out of range: %d", r.OverallScore)
	}
	if len(r.GoodPoints) == 0 {
		t.Error("an empathetic session should have good points")
	}
}
