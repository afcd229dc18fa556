package engine

import (
	"fmt"
	"strings"

	"github.com/proftrain/patientsim/internal/scenario"
)

// Report is the end-of-session performance analysis. It is recomputed on
// demand from the turn history and current state, never persisted.
type Report struct {
	AlignmentScore      int      `json:"alignment_score"`
	CommunicationScore  int      `json:"communication_score"`
	GoalProgressScore   int      `json:"goal_progress_score"`
	OverallScore        int      `json:"overall_score"`
	GoodPoints          []string `json:"good_points"`
	Recommendations     []string `json:"recommendations"`
	MissedOpportunities []string `json:"missed_opportunities"`
}

// BuildReport scores the whole session. Weights: 0.3 alignment,
// 0.4 communication, 0.3 goal progress.
func BuildReport(sc scenario.Scenario, turns []Turn, st *State, know *Knowledge) Report {
	var traineeTexts []string
	for _, t := range turns {
		if t.Speaker == SpeakerTrainee {
			traineeTexts = append(traineeTexts, strings.ToLower(t.Text))
		}
	}

	alignment := 0
	if sc.Goal != "" && anyKeywordMentioned(sc.Goal, traineeTexts) {
		alignment += 50
	}
	if st.EmpathyShown() > 0 {
		alignment += 30
	}
	if know.ClarityLevel > 2 {
		alignment += 20
	}
	if alignment > 100 {
		alignment = 100
	}

	communication := st.Satisfaction

	goalProgress := 0
	if len(sc.Objectives) > 0 {
		met := 0
		for _, obj := range sc.Objectives {
			if anyKeywordMentioned(obj, traineeTexts) {
				met++
			}
		}
		goalProgress = met * 100 / len(sc.Objectives)
	} else {
		goalProgress = len(turns) * 10
		if goalProgress > 100 {
			goalProgress = 100
		}
	}

	r := Report{
		AlignmentScore:     alignment,
		CommunicationScore: communication,
		GoalProgressScore:  goalProgress,
		OverallScore: int(float64(alignment)*0.3 +
			float64(communication)*0.4 +
			float64(goalProgress)*0.3 + 0.5),
	}

	r.qualitative(sc, turns, st, know, goalProgress)
	return r
}

func (r *Report) qualitative(sc scenario.Scenario, turns []Turn, st *State, know *Knowledge, goalProgress int) {
	if st.Satisfaction >= 70 {
		r.GoodPoints = append(r.GoodPoints, "Успешно установлен контакт с пациентом")
	} else if st.Satisfaction < 40 {
		r.Recommendations = append(r.Recommendations, "Проявляйте больше эмпатии и внимания к пациенту")
		r.MissedOpportunities = append(r.MissedOpportunities, "Недостаточно внимания к эмоциям пациента")
	}

	switch {
	case st.EmpathyShown() >= 2:
		r.GoodPoints = append(r.GoodPoints, "Проявили эмпатию и понимание")
	case st.EmpathyShown() == 0:
		r.Recommendations = append(r.Recommendations, `Используйте фразы "Я понимаю ваши переживания", "Не волнуйтесь"`)
		r.MissedOpportunities = append(r.MissedOpportunities, "Не проявили эмпатию")
	}

	switch {
	case know.ClarityLevel >= 3:
		r.GoodPoints = append(r.GoodPoints, "Объясняли простым языком")
	case know.ClarityLevel <= 0:
		r.Recommendations = append(r.Recommendations, "Избегайте медицинских терминов, объясняйте проще")
		r.MissedOpportunities = append(r.MissedOpportunities, "Использовали сложную терминологию")
	}

	if len(turns) >= 7 {
		r.GoodPoints = append(r.GoodPoints, fmt.Sprintf("Провели подробную беседу (%d сообщений)", len(turns)))
	} else if len(turns) < 4 {
		r.Recommendations = append(r.Recommendations, "Продлите разговор, задайте больше вопросов")
	}

	if goalProgress < 50 {
		if sc.Goal != "" {
			r.MissedOpportunities = append(r.MissedOpportunities, fmt.Sprintf("Цель «%s» не достигнута", sc.Goal))
		}
		r.Recommendations = append(r.Recommendations, "Направьте беседу к достижению основной цели")
	} else if goalProgress >= 80 {
		r.GoodPoints = append(r.GoodPoints, "Отлично! Цель разговора достигнута")
	}

	if emotionalJourneyImproved(st.Journey) {
		r.GoodPoints = append(r.GoodPoints, "Успешно улучшили эмоциональное состояние пациента")
	}

	for _, p := range know.Promises {
		r.GoodPoints = append(r.GoodPoints, fmt.Sprintf("Дали конкретное обещание: %s", p.Excerpt))
		break // one mention is enough
	}
	if len(know.OpenQuestions) > 0 {
		r.MissedOpportunities = append(r.MissedOpportunities,
			fmt.Sprintf("Остались без ответа вопросы пациента (%d)", len(know.OpenQuestions)))
	}
}

func emotionalJourneyImproved(journey []Emotion) bool {
	if len(journey) < 2 {
		return false
	}
	first, last := journey[0], journey[len(journey)-1]
	switch {
	case first == EmotionScared && (last == EmotionCalm || last == EmotionRelieved || last == EmotionHappy):
		return true
	case first == EmotionNervous && (last == EmotionCalm || last == EmotionRelieved || last == EmotionHappy):
		return true
	case first == EmotionAngry && last != EmotionAngry:
		return true
	}
	return false
}

// anyKeywordMentioned checks whether any meaningful word (4+ letters) of the
// phrase shows up in the trainee's messages.
func anyKeywordMentioned(phrase string, traineeTexts []string) bool {
	for _, kw := range fieldsLonger(strings.ToLower(phrase), 3) {
		for _, text := range traineeTexts {
			if strings.Contains(text, kw) {
				return true
			}
		}
	}
	return false
}
