package engine

import "time"

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerTrainee Speaker = "trainee"
	SpeakerPersona Speaker = "persona"
)

// Turn is one utterance in the session. The history is append-only and owned
// by the engine; trainee turns carry their analysis, persona turns do not.
type Turn struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Analysis  *Analysis `json:"analysis,omitempty"`
}

// Sentiment is the coarse tone of a trainee message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Topic is one of the fixed conversation subjects the analyzer recognizes.
type Topic string

const (
	TopicTreatment  Topic = "treatment"
	TopicPain       Topic = "pain"
	TopicCost       Topic = "cost"
	TopicTime       Topic = "time"
	TopicSafety     Topic = "safety"
	TopicResults    Topic = "results"
	TopicExperience Topic = "experience"
)

// AllTopics is the full topic vocabulary, in exploration order.
var AllTopics = []Topic{
	TopicTreatment, TopicPain, TopicCost, TopicTime,
	TopicSafety, TopicResults, TopicExperience,
}

// Analysis is what the analyzer extracts from a single trainee message.
// When Nonsense or TooShort is set, all other signals are zero: such input
// short-circuits scoring and routes to a dedicated reply.
type Analysis struct {
	Topics            []Topic   `json:"topics"`
	Sentiment         Sentiment `json:"sentiment"`
	HasEmpathy        bool      `json:"has_empathy"`
	EmpathyScore      int       `json:"empathy_score"`
	HasQuestion       bool      `json:"has_question"`
	IsTechnical       bool      `json:"is_technical"`
	IsSimple          bool      `json:"is_simple"`
	AddressedConcerns []string  `json:"addressed_concerns,omitempty"`
	ResponseQuality   int       `json:"response_quality"`
	WordCount         int       `json:"word_count"`
	Nonsense          bool      `json:"nonsense,omitempty"`
	TooShort          bool      `json:"too_short,omitempty"`
}

// HasTopic reports whether the analysis detected the given topic.
func (a Analysis) HasTopic(t Topic) bool {
	for _, got := range a.Topics {
		if got == t {
			return true
		}
	}
	return false
}

// Emotion is the persona's current emotional state.
type Emotion string

const (
	EmotionNeutral  Emotion = "neutral"
	EmotionScared   Emotion = "scared"
	EmotionNervous  Emotion = "nervous"
	EmotionConfused Emotion = "confused"
	EmotionAngry    Emotion = "angry"
	EmotionSad      Emotion = "sad"
	EmotionCalm     Emotion = "calm"
	EmotionRelieved Emotion = "relieved"
	EmotionHappy    Emotion = "happy"
)

// ParseEmotion maps a scenario's free-form emotional state onto the enum,
// defaulting to neutral for anything unknown.
func ParseEmotion(s string) Emotion {
	switch Emotion(s) {
	case EmotionScared, EmotionNervous, EmotionConfused, EmotionAngry,
		EmotionSad, EmotionCalm, EmotionRelieved, EmotionHappy, EmotionNeutral:
		return Emotion(s)
	}
	return EmotionNeutral
}

// Phase is the coarse conversation lifecycle stage.
type Phase string

const (
	PhaseInitial     Phase = "initial"
	PhaseExploration Phase = "exploration"
	PhaseNegotiation Phase = "negotiation"
	PhaseDecision    Phase = "decision"
	PhaseClosing     Phase = "closing"
)

// Reply is the per-turn output returned to the caller.
type Reply struct {
	Message      string  `json:"message"`
	Emotion      Emotion `json:"emotional_state"`
	Satisfaction int     `json:"satisfaction"`
	Phase        Phase   `json:"phase"`
}
