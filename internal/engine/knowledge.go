package engine

import (
	"regexp"
	"time"
)

// promiseRe matches first-person future commitments ("я помогу", "я запишу").
var promiseRe = regexp.MustCompile(`(?i)я\s+(помогу|сделаю|организую|назначу|запишу|уточню|проверю)`)

// explainRe matches explanatory phrasing that signals a deliberate effort to
// make something clear.
var explainRe = regexp.MustCompile(`(?i)(это означает|другими словами|проще говоря|то есть|иначе говоря)`)

// clarifyRe matches clarifying questions addressed to the persona.
var clarifyRe = regexp.MustCompile(`(?i)(\?|что вас|расскажите|как вы|какие у вас)`)

const maxOpenQuestions = 3

// Promise is a literal excerpt of a commitment the trainee made.
type Promise struct {
	Excerpt string    `json:"excerpt"`
	At      time.Time `json:"at"`
}

// OpenQuestion is a question the persona asked that the trainee has not yet
// addressed. It resolves once a later trainee turn touches its topic.
type OpenQuestion struct {
	Text   string    `json:"text"`
	Topics []Topic   `json:"topics,omitempty"`
	At     time.Time `json:"at"`
}

// Traits is the persona's running estimate of the trainee's communication
// style. Counters only grow; a bad turn does not erase earlier evidence.
type Traits struct {
	Empathy         int `json:"empathy"`
	Professionalism int `json:"professionalism"`
	Clarity         int `json:"clarity"`
	Responsiveness  int `json:"responsiveness"`
}

// Strategy is the knowledge base's advice to the composer for the next reply.
type Strategy struct {
	AskQuestion    bool
	ExpressConcern bool
	ShowGratitude  bool
	Challenge      bool
	TopicToExplore Topic
}

// KeyMoment is a notable point in the conversation, kept for the session
// report.
type KeyMoment struct {
	Turn     int    `json:"turn"`
	What     string `json:"what"`
	Positive bool   `json:"positive"`
	Impact   int    `json:"impact"`
}

// Knowledge accumulates what the persona has learned during the session:
// which subjects were covered and how deeply, what was promised, what is
// still hanging, and what kind of communicator the trainee is.
type Knowledge struct {
	TopicDepth    map[Topic]int
	Promises      []Promise
	OpenQuestions []OpenQuestion
	Traits        Traits
	Strategy      Strategy

	ClarityLevel   int
	QuestionsAsked int
	KeyMoments     []KeyMoment
}

func NewKnowledge() *Knowledge {
	return &Knowledge{
		TopicDepth: make(map[Topic]int),
		Strategy:   Strategy{AskQuestion: true, ExpressConcern: true},
	}
}

// Observe folds one analyzed trainee turn into the knowledge base.
func (k *Knowledge) Observe(text string, a Analysis, traineeTurn int, now time.Time) {
	if a.Nonsense || a.TooShort {
		return
	}

	for _, t := range a.Topics {
		k.TopicDepth[t]++
	}

	if promiseRe.MatchString(text) {
		k.Promises = append(k.Promises, Promise{Excerpt: excerpt(text, 100), At: now})
	}

	k.resolveQuestions(a.Topics)

	if a.HasEmpathy {
		k.Traits.Empathy = capAt100(k.Traits.Empathy + 15)
		k.KeyMoments = append(k.KeyMoments, KeyMoment{Turn: traineeTurn, What: "Проявлена эмпатия к пациенту", Positive: true, Impact: 12})
	}
	if explainRe.MatchString(text) {
		k.Traits.Professionalism = capAt100(k.Traits.Professionalism + 10)
	}
	if a.IsSimple && !a.IsTechnical {
		k.Traits.Clarity = capAt100(k.Traits.Clarity + 10)
	}
	if clarifyRe.MatchString(text) {
		k.Traits.Responsiveness = capAt100(k.Traits.Responsiveness + 12)
	}

	if a.HasQuestion {
		k.QuestionsAsked++
	}

	if a.IsTechnical {
		k.ClarityLevel--
		if k.ClarityLevel < 0 {
			k.ClarityLevel = 0
		}
		k.KeyMoments = append(k.KeyMoments, KeyMoment{Turn: traineeTurn, What: "Использована сложная терминология", Impact: -15})
	} else if a.IsSimple {
		k.ClarityLevel++
		if k.ClarityLevel >= 2 {
			k.KeyMoments = append(k.KeyMoments, KeyMoment{Turn: traineeTurn, What: "Объяснение простым языком", Positive: true, Impact: 8})
		}
	}

	if a.Sentiment == SentimentNegative {
		k.KeyMoments = append(k.KeyMoments, KeyMoment{Turn: traineeTurn, What: "Холодный или негативный тон", Impact: -10})
	}
}

// RecordPersonaQuestion remembers that the persona just asked something. Only
// the most recent few stay open.
func (k *Knowledge) RecordPersonaQuestion(text string, topics []Topic, now time.Time) {
	k.OpenQuestions = append(k.OpenQuestions, OpenQuestion{Text: text, Topics: topics, At: now})
	if len(k.OpenQuestions) > maxOpenQuestions {
		k.OpenQuestions = k.OpenQuestions[len(k.OpenQuestions)-maxOpenQuestions:]
	}
}

// resolveQuestions drops open questions whose topic the trainee just covered.
func (k *Knowledge) resolveQuestions(covered []Topic) {
	if len(k.OpenQuestions) == 0 || len(covered) == 0 {
		return
	}
	kept := k.OpenQuestions[:0]
	for _, q := range k.OpenQuestions {
		resolved := false
		for _, qt := range q.Topics {
			for _, ct := range covered {
				if qt == ct {
					resolved = true
				}
			}
		}
		if !resolved {
			kept = append(kept, q)
		}
	}
	k.OpenQuestions = kept
}

// UpdateStrategy recomputes the composer flags from the current session shape.
func (k *Knowledge) UpdateStrategy(traineeTurns, satisfaction, trust int) {
	k.Strategy.AskQuestion = traineeTurns < 12 && len(k.TopicDepth) < 5
	k.Strategy.ExpressConcern = satisfaction < 60 && len(k.OpenQuestions) > 0
	k.Strategy.ShowGratitude = k.Traits.Empathy > 50 || k.Traits.Responsiveness > 60
	k.Strategy.Challenge = trust < 40 && traineeTurns > 5

	k.Strategy.TopicToExplore = ""
	for _, t := range AllTopics {
		if k.TopicDepth[t] == 0 {
			k.Strategy.TopicToExplore = t
			break
		}
	}
}

// UndiscussedTopic returns the first topic never raised, or "".
func (k *Knowledge) UndiscussedTopic() Topic {
	for _, t := range AllTopics {
		if k.TopicDepth[t] == 0 {
			return t
		}
	}
	return ""
}

// DeepestTopic returns the most discussed topic, or "".
func (k *Knowledge) DeepestTopic() Topic {
	var best Topic
	depth := 0
	for _, t := range AllTopics {
		if k.TopicDepth[t] > depth {
			best, depth = t, k.TopicDepth[t]
		}
	}
	return best
}

func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

func capAt100(v int) int {
	if v > 100 {
		return 100
	}
	return v
}
