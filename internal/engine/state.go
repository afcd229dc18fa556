package engine

// initialAnxiety maps the persona's starting emotion to an anxiety level.
var initialAnxiety = map[Emotion]int{
	EmotionScared:   90,
	EmotionAngry:    70,
	EmotionNervous:  60,
	EmotionConfused: 55,
	EmotionSad:      50,
	EmotionNeutral:  50,
	EmotionCalm:     30,
	EmotionRelieved: 20,
	EmotionHappy:    10,
}

// adjacency is the fixed emotion transition table. A rule may propose any
// target, but only adjacent targets are applied; everything else is a no-op.
// Angry is reachable from every state — a conversation can always be ruined.
var adjacency = map[Emotion][]Emotion{
	EmotionNeutral:  {EmotionNervous, EmotionCalm, EmotionConfused, EmotionSad, EmotionHappy},
	EmotionScared:   {EmotionNervous, EmotionConfused, EmotionRelieved},
	EmotionNervous:  {EmotionCalm, EmotionConfused, EmotionScared, EmotionRelieved, EmotionHappy},
	EmotionCalm:     {EmotionHappy, EmotionConfused, EmotionSad, EmotionNervous, EmotionRelieved},
	EmotionConfused: {EmotionCalm, EmotionNervous, EmotionSad},
	EmotionAngry:    {EmotionNervous, EmotionSad},
	EmotionSad:      {EmotionNervous, EmotionCalm, EmotionConfused},
	EmotionRelieved: {EmotionCalm, EmotionHappy, EmotionNervous},
	EmotionHappy:    {EmotionCalm, EmotionSad},
}

func canStep(from, to Emotion) bool {
	if from == to {
		return true
	}
	if to == EmotionAngry {
		return true
	}
	for _, e := range adjacency[from] {
		if e == to {
			return true
		}
	}
	return false
}

// State holds the persona's mood counters and emotion. All three counters
// stay clamped to [0,100]; the emotion moves at most one step per turn.
type State struct {
	Satisfaction int
	Trust        int
	Anxiety      int
	Emotion      Emotion
	Phase        Phase

	// Journey records each distinct emotion in order of appearance.
	Journey []Emotion

	empathyShown    int
	earlyBonusGiven bool
}

// NewState initializes the counters for a persona starting in the given
// emotion: satisfaction 50, trust 30, anxiety from the fixed mapping.
func NewState(initial Emotion) *State {
	return &State{
		Satisfaction: 50,
		Trust:        30,
		Anxiety:      initialAnxiety[initial],
		Emotion:      initial,
		Phase:        PhaseInitial,
		Journey:      []Emotion{initial},
	}
}

// Apply folds one trainee turn's analysis into the counters and steps the
// emotion machine. traineeTurn is 1-based; lowKnowledge reflects the
// persona's declared knowledge level.
func (s *State) Apply(a Analysis, traineeTurn int, lowKnowledge bool) {
	prevSatisfaction := s.Satisfaction
	if a.HasEmpathy {
		s.empathyShown++
	}

	sat := 0
	switch {
	case a.Nonsense:
		sat -= 25
	case a.TooShort:
		sat -= 12
	default:
		if a.HasEmpathy {
			sat += 10
		}
		if a.HasQuestion {
			sat += 5
		}
		if a.IsSimple {
			sat += 8
		}
		switch a.Sentiment {
		case SentimentPositive:
			sat += 5
		case SentimentNegative:
			sat -= 10
		}
		if a.IsTechnical && lowKnowledge {
			sat -= 18
		}
		if !s.earlyBonusGiven && traineeTurn <= 6 && a.HasEmpathy && a.ResponseQuality >= 70 {
			sat += 15
			s.earlyBonusGiven = true
		}
	}
	if traineeTurn > 8 && s.Satisfaction < 40 {
		sat -= 8
	}
	s.Satisfaction = clamp(s.Satisfaction + sat)

	trust := 0
	if a.HasEmpathy {
		trust += 8
	}
	if a.HasQuestion {
		trust += 6
	}
	if len(a.Topics) >= 3 {
		trust += 10
	}
	if a.Sentiment == SentimentNegative {
		trust -= 12
	}
	s.Trust = clamp(s.Trust + trust)

	anx := 0
	if a.HasEmpathy {
		anx -= 15
	}
	if a.IsSimple {
		anx -= 5
	}
	if a.IsTechnical {
		anx += 10
	}
	if a.Sentiment == SentimentNegative {
		anx += 8
	}
	if a.Nonsense {
		anx += 10
	}
	s.Anxiety = clamp(s.Anxiety + anx)

	s.step(s.nextEmotion(a, traineeTurn, lowKnowledge, prevSatisfaction))
}

// nextEmotion evaluates the transition rules in fixed priority order and
// returns the first match's proposed target. Empty means no rule matched.
func (s *State) nextEmotion(a Analysis, traineeTurn int, lowKnowledge bool, prevSatisfaction int) Emotion {
	switch {
	case a.Nonsense:
		if s.Emotion == EmotionAngry {
			return EmotionAngry
		}
		return EmotionConfused

	case traineeTurn <= 6 && s.Satisfaction >= 75 && s.empathyShown > 0:
		return EmotionHappy

	case a.HasEmpathy && s.empathyShown >= 2 &&
		(s.Emotion == EmotionScared || s.Emotion == EmotionNervous || s.Emotion == EmotionAngry):
		switch s.Emotion {
		case EmotionScared:
			return EmotionNervous
		case EmotionNervous:
			return EmotionCalm
		default:
			return EmotionNervous
		}

	case a.IsTechnical && lowKnowledge:
		return EmotionConfused

	case traineeTurn > 8 && s.Satisfaction < 40:
		return EmotionAngry

	case s.Satisfaction < prevSatisfaction &&
		(s.Emotion == EmotionCalm || s.Emotion == EmotionHappy):
		return EmotionSad

	case s.Satisfaction >= 60 && s.Satisfaction <= 75 &&
		(s.Emotion == EmotionScared || s.Emotion == EmotionNervous):
		return EmotionRelieved
	}
	return ""
}

func (s *State) step(target Emotion) {
	if target == "" || target == s.Emotion || !canStep(s.Emotion, target) {
		return
	}
	s.Emotion = target
	s.Journey = append(s.Journey, target)
}

// EmpathyShown is the number of trainee turns that carried empathy.
func (s *State) EmpathyShown() int { return s.empathyShown }

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
