package engine

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

// Trait gates: "high" praises, "low" complains — but only once there is
// enough conversation to judge (see minTurnsForJudgment).
const (
	traitHigh           = 60
	traitLow            = 20
	minTurnsForJudgment = 4
	objectionChance     = 0.25
	objectionMinTurn    = 3
	contradictionWindow = 3
	acceptanceThreshold = 60
)

var (
	priceFigureRe    = regexp.MustCompile(`\d+\s*(руб|₽|тыс|т\.р)`)
	durationFigureRe = regexp.MustCompile(`\d+\s*(мин|час|дн(я|ей)|недел|месяц)`)
)

// Each pair is two mutually exclusive claims; mentioning both across nearby
// turns triggers the contradiction clause. Word-boundary matching keeps
// «дорого» from hiding inside «недорого».
var contradictionPairs = [][2]string{
	{"дорого", "недорого"},
	{"дорого", "дешево"},
	{"быстро", "долго"},
	{"быстро", "медленно"},
	{"безопасно", "опасно"},
	{"больно", "безболезненно"},
}

// ComposeInput is everything the composer looks at for one reply.
type ComposeInput struct {
	Text          string
	Analysis      Analysis
	State         *State
	Know          *Knowledge
	TraineeTurns  int
	LowKnowledge  bool
	RecentTrainee []string // current plus up to two preceding trainee texts
}

// ComposedReply is the reply text plus metadata the engine needs to keep the
// knowledge base honest about questions the persona itself asked.
type ComposedReply struct {
	Text       string
	Kind       string // nonsense | too_short | objection | composed
	AskedTopic Topic
}

// Composer assembles the persona's reply as an ordered rule chain: the first
// applicable terminal rule returns immediately, otherwise optional clauses
// are appended in a fixed sequence.
type Composer struct {
	decks  *Decks
	rng    *rand.Rand
	raised map[string]bool
}

func NewComposer(rng *rand.Rand) *Composer {
	return &Composer{
		decks:  NewDecks(rng),
		rng:    rng,
		raised: make(map[string]bool),
	}
}

// Decks exposes the phrase pools, mainly for the greeting and for tests.
func (c *Composer) Decks() *Decks { return c.decks }

func (c *Composer) Compose(in ComposeInput) ComposedReply {
	// Terminal rules first.
	if in.Analysis.Nonsense {
		return ComposedReply{Text: c.decks.Draw(poolNonsense), Kind: "nonsense"}
	}
	if in.Analysis.TooShort {
		return ComposedReply{Text: c.decks.Draw(poolTooShort), Kind: "too_short"}
	}
	if text, ok := c.maybeObjection(in); ok {
		return ComposedReply{Text: text, Kind: "objection"}
	}

	var parts []string
	var asked Topic

	if s := c.traitReaction(in); s != "" {
		parts = append(parts, s)
	}
	if s, t := c.phaseClause(in); s != "" {
		parts = append(parts, s)
		asked = t
	}
	if s := c.literalReaction(in); s != "" {
		parts = append(parts, s)
	}
	if s := c.contradiction(in); s != "" {
		parts = append(parts, s)
	}
	if s, t := c.strategyClause(in, asked); s != "" {
		parts = append(parts, s)
		if asked == "" {
			asked = t
		}
	}

	if len(parts) == 0 {
		return ComposedReply{Text: c.decks.Draw(poolFiller), Kind: "composed"}
	}
	return ComposedReply{Text: strings.Join(parts, " "), Kind: "composed", AskedTopic: asked}
}

// maybeObjection injects an unprompted doubt after the opening turns, unless
// the trainee has already proven warm and responsive.
func (c *Composer) maybeObjection(in ComposeInput) (string, bool) {
	if in.TraineeTurns <= objectionMinTurn {
		return "", false
	}
	if in.Know.Traits.Empathy > traitHigh && in.Know.Traits.Responsiveness > traitHigh {
		return "", false
	}
	if c.rng.Float64() >= objectionChance {
		return "", false
	}
	cat := objectionCategories[c.rng.Intn(len(objectionCategories))]
	return c.decks.Draw(objectionPool(cat)), true
}

// traitReaction answers the trainee's overall manner, not the last message.
func (c *Composer) traitReaction(in ComposeInput) string {
	tr := in.Know.Traits
	switch {
	case tr.Empathy > traitHigh && tr.Responsiveness > traitHigh:
		return c.decks.Draw(poolGratitude)
	case in.TraineeTurns >= minTurnsForJudgment && tr.Empathy < traitLow && tr.Responsiveness < traitLow:
		return c.decks.Draw(poolColdness)
	case in.TraineeTurns >= minTurnsForJudgment && tr.Clarity < traitLow:
		return c.decks.Draw(poolSimplify)
	case tr.Professionalism > traitHigh && tr.Empathy < traitLow:
		return c.decks.Draw(poolFormality)
	}
	return ""
}

func (c *Composer) phaseClause(in ComposeInput) (string, Topic) {
	switch in.State.Phase {
	case PhaseInitial:
		if t := in.Know.UndiscussedTopic(); t != "" {
			return c.decks.Draw(questionPool(t)), t
		}
	case PhaseExploration:
		t := in.Know.Strategy.TopicToExplore
		if t != "" {
			return c.decks.Draw(questionPool(t)), t
		}
		if deep := in.Know.DeepestTopic(); deep != "" {
			return c.decks.Draw(followUpPool(deep)), deep
		}
	case PhaseNegotiation:
		if in.State.Satisfaction >= acceptanceThreshold {
			return c.decks.Draw(poolAccepting), ""
		}
		return c.decks.Draw(poolWavering), ""
	case PhaseDecision:
		return c.decks.Draw(poolReadiness), ""
	case PhaseClosing:
		if in.State.Satisfaction >= acceptanceThreshold {
			return c.decks.Draw(poolCloseYes), ""
		}
		return c.decks.Draw(poolCloseNo), ""
	}
	return "", ""
}

// literalReaction responds to concrete content in the trainee's wording.
func (c *Composer) literalReaction(in ComposeInput) string {
	lower := normalize(in.Text)
	switch {
	case priceFigureRe.MatchString(lower):
		return c.decks.Draw(poolPriceReact)
	case durationFigureRe.MatchString(lower):
		return c.decks.Draw(poolTimeReact)
	case strings.Contains(lower, "гарантир"):
		return c.decks.Draw(poolGuarantee)
	case containsWord(lower, "безопасно"):
		return c.decks.Draw(poolSafety)
	case in.Analysis.IsTechnical && in.LowKnowledge:
		return c.decks.Draw(poolRephrase)
	}
	return ""
}

// contradiction scans the recent trainee turns for opposite claims and calls
// each one out at most once per session.
func (c *Composer) contradiction(in ComposeInput) string {
	if len(in.RecentTrainee) < 2 {
		return ""
	}
	window := in.RecentTrainee
	if len(window) > contradictionWindow {
		window = window[len(window)-contradictionWindow:]
	}
	current := normalize(window[len(window)-1])
	earlier := window[:len(window)-1]

	for _, pair := range contradictionPairs {
		key := pair[0] + "/" + pair[1]
		if c.raised[key] {
			continue
		}
		for _, prev := range earlier {
			p := normalize(prev)
			var first, second string
			switch {
			case containsWord(p, pair[0]) && containsWord(current, pair[1]):
				first, second = pair[0], pair[1]
			case containsWord(p, pair[1]) && containsWord(current, pair[0]):
				first, second = pair[1], pair[0]
			default:
				continue
			}
			c.raised[key] = true
			tmpl := c.decks.Draw("contradiction")
			return fmt.Sprintf(tmpl, first, second)
		}
	}
	return ""
}

func (c *Composer) strategyClause(in ComposeInput, alreadyAsked Topic) (string, Topic) {
	st := in.Know.Strategy
	switch {
	case st.ShowGratitude:
		return c.decks.Draw(poolThanks), ""
	case st.Challenge:
		return c.decks.Draw(poolChallenge), ""
	case st.AskQuestion && alreadyAsked == "":
		if t := in.Know.UndiscussedTopic(); t != "" {
			return c.decks.Draw(questionPool(t)), t
		}
		if deep := in.Know.DeepestTopic(); deep != "" {
			return c.decks.Draw(followUpPool(deep)), deep
		}
	}
	return "", ""
}

// normalize lowercases and folds ё→е so word matching is spelling-agnostic.
func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "ё", "е")
}
