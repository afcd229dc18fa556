package engine

import (
	"strings"
	"unicode"
)

// Analyzer extracts signals from one trainee message. It is an interface so
// the keyword heuristics can later be swapped for a real NLP component
// without touching the state machine or the composer.
type Analyzer interface {
	// Analyze inspects text sent as the given trainee turn (1-based).
	Analyze(text string, traineeTurn int) Analysis
}

// weighted empathy phrases; longer, more specific phrasing scores higher.
// Matches are cumulative: "понимаю ваши переживания" also contains "понимаю".
var empathyPhrases = []struct {
	phrase string
	weight int
}{
	{"понимаю ваши переживания", 15},
	{"я на вашей стороне", 14},
	{"я вам помогу", 13},
	{"не волнуйтесь", 12},
	{"не переживайте", 12},
	{"это нормально", 11},
	{"многие пациенты", 10},
	{"понимаю", 10},
}

var questionWords = []string{
	"как", "что", "почему", "зачем", "когда", "где", "сколько",
	"можете", "расскажите",
}

var technicalTerms = []string{
	"диагностика", "патология", "симптоматика", "терапия", "анамнез",
	"противопоказания", "резекция", "имплантация", "пародонтоз",
	"этиология", "клиническая картина",
}

var topicKeywords = map[Topic][]string{
	TopicTreatment:  {"лечение", "лечени", "процедура", "процедур", "операция", "операци", "метод", "имплант", "протез"},
	TopicPain:       {"боль", "больно", "дискомфорт", "анестезия", "анестези", "обезболивание", "обезболиван"},
	TopicCost:       {"стоимость", "цена", "цен", "оплата", "оплат", "рассрочка", "рассрочк", "скидка", "скидк", "бюджет"},
	TopicTime:       {"время", "долго", "быстро", "срок", "длительность", "продолжительность"},
	TopicSafety:     {"безопасно", "опасно", "риск", "осложнения", "осложнени", "последствия", "последстви"},
	TopicResults:    {"результат", "эффект", "эффективность", "итог", "улучшение", "гарантия", "гаранти"},
	TopicExperience: {"опыт", "практика", "случаи", "пациенты", "пациентов", "статистика"},
}

var positiveWords = []string{
	"хорошо", "отлично", "понятно", "помогу", "решим", "конечно", "легко", "просто",
}

var negativeWords = []string{
	"сложно", "проблема", "невозможно", "плохо", "нет", "дорого", "долго", "больно",
}

// rows checked for keyboard-mash input, both latin and Russian ЙЦУКЕН layout.
var keyboardRows = []string{
	"qwert", "werty", "asdfg", "sdfgh", "dfghj", "zxcvb", "xcvbn",
	"йцуке", "цукен", "фывап", "ывапр", "ячсми", "чсмит", "12345", "23456",
}

const vowels = "аеёиоуыэюяaeiouy"

// KeywordAnalyzer is the default Analyzer: keyword tables, weighted phrase
// matching and a couple of shape checks. No model, no I/O.
type KeywordAnalyzer struct {
	concerns []string
}

// NewAnalyzer builds an analyzer aware of the scenario's declared concerns.
func NewAnalyzer(concerns []string) *KeywordAnalyzer {
	return &KeywordAnalyzer{concerns: concerns}
}

func (ka *KeywordAnalyzer) Analyze(text string, traineeTurn int) Analysis {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	// Degenerate input never reaches normal scoring.
	if isNonsense(lower) {
		return Analysis{Sentiment: SentimentNeutral, Nonsense: true}
	}
	if traineeTurn > 1 && len([]rune(trimmed)) < 10 {
		return Analysis{Sentiment: SentimentNeutral, TooShort: true}
	}

	words := fieldsLonger(trimmed, 2)

	a := Analysis{
		Sentiment:       SentimentNeutral,
		ResponseQuality: 50,
		WordCount:       len(words),
	}

	for _, ep := range empathyPhrases {
		if strings.Contains(lower, ep.phrase) {
			a.EmpathyScore += ep.weight
		}
	}
	a.HasEmpathy = a.EmpathyScore > 0
	a.ResponseQuality += a.EmpathyScore

	for _, q := range questionWords {
		if containsWord(lower, q) {
			a.HasQuestion = true
			break
		}
	}
	if strings.Contains(trimmed, "?") {
		a.HasQuestion = true
	}
	if a.HasQuestion {
		a.ResponseQuality += 10
	}

	techCount := 0
	for _, term := range technicalTerms {
		if strings.Contains(lower, term) {
			techCount++
		}
	}
	a.IsTechnical = techCount >= 2
	a.IsSimple = longWordCount(lower) <= 2 && techCount == 0
	if a.IsSimple {
		a.ResponseQuality += 10
	}
	if a.IsTechnical {
		a.ResponseQuality -= 15
	}

	for _, topic := range AllTopics {
		for _, kw := range topicKeywords[topic] {
			if strings.Contains(lower, kw) {
				a.Topics = append(a.Topics, topic)
				break
			}
		}
	}

	for _, concern := range ka.concerns {
		for _, kw := range fieldsLonger(strings.ToLower(concern), 3) {
			if strings.Contains(lower, kw) {
				a.AddressedConcerns = append(a.AddressedConcerns, concern)
				a.ResponseQuality += 15
				break
			}
		}
	}

	pos, neg := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if containsWord(lower, w) {
			neg++
		}
	}
	if pos > neg {
		a.Sentiment = SentimentPositive
		a.ResponseQuality += 5
	} else if neg > pos {
		a.Sentiment = SentimentNegative
		a.ResponseQuality -= 10
	}

	if a.WordCount >= 10 {
		a.ResponseQuality += 10
	} else if a.WordCount < 5 {
		a.ResponseQuality -= 15
	}

	if a.ResponseQuality < 0 {
		a.ResponseQuality = 0
	} else if a.ResponseQuality > 100 {
		a.ResponseQuality = 100
	}
	return a
}

// isNonsense flags input nobody would type in good faith: too short to mean
// anything, digits and punctuation only, mashed key runs, keyboard rows, or
// a vowel ratio no real word mix produces.
func isNonsense(lower string) bool {
	runes := []rune(lower)
	if len(runes) < 3 {
		return true
	}

	letters := 0
	for _, r := range runes {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters == 0 {
		return true
	}

	run, best := 1, 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 1
		}
	}
	if best >= 5 {
		return true
	}

	for _, row := range keyboardRows {
		if strings.Contains(lower, row) {
			return true
		}
	}

	if letters >= 6 {
		vowelCount := 0
		for _, r := range runes {
			if strings.ContainsRune(vowels, r) {
				vowelCount++
			}
		}
		if float64(vowelCount)/float64(letters) < 0.15 {
			return true
		}
	}
	return false
}

// longWordCount counts words of 10+ letters; a pile of them reads as jargon.
func longWordCount(lower string) int {
	n := 0
	for _, w := range strings.FieldsFunc(lower, notLetter) {
		if len([]rune(w)) >= 10 {
			n++
		}
	}
	return n
}

// containsWord does an exact word-boundary match. Substring matching would
// confuse pairs like "дорого" and "недорого".
func containsWord(lower, word string) bool {
	for _, w := range strings.FieldsFunc(lower, notLetter) {
		if w == word {
			return true
		}
	}
	return false
}

func fieldsLonger(s string, minLen int) []string {
	var out []string
	for _, w := range strings.FieldsFunc(s, notLetter) {
		if len([]rune(w)) > minLen {
			out = append(out, w)
		}
	}
	return out
}

func notLetter(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
