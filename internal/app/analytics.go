package app

import (
	"math"
	"strconv"

	"survey-service/internal/domain"
)

// Aggregate reduces the responses of survey into per-question distributions
// and, when the survey has an NPS question, its NPS breakdown. Answers to
// questions no longer in the survey, and answers whose shape does not match
// the question type, are ignored.
func Aggregate(survey domain.Survey, responses []domain.Response) domain.AnalyticsSummary {
	summary := domain.AnalyticsSummary{
		SurveyID:       survey.ID,
		TotalResponses: len(responses),
		PerQuestion:    make(map[string]domain.Distribution, len(survey.Questions)),
	}

	counts := make(map[string]map[string]int, len(survey.Questions))
	respondents := make(map[string]int, len(survey.Questions))
	for _, q := range survey.Questions {
		counts[q.ID] = make(map[string]int)
	}

	npsQuestion, hasNPS := firstOfType(survey, domain.NPS)
	var npsValues []int

	for _, r := range responses {
		for _, a := range r.Answers {
			q, _, ok := survey.Question(a.QuestionID)
			if !ok {
				continue
			}
			keys, ok := distributionKeys(q, a.Value)
			if !ok {
				continue
			}
			respondents[q.ID]++
			for _, k := range keys {
				counts[q.ID][k]++
			}
			if hasNPS && q.ID == npsQuestion.ID {
				npsValues = append(npsValues, int(a.Value.(domain.NumberValue)))
			}
		}
	}

	for _, q := range survey.Questions {
		dist := make(domain.Distribution, len(counts[q.ID]))
		total := respondents[q.ID]
		for value, n := range counts[q.ID] {
			dist[value] = domain.Bucket{
				Count:      n,
				Percentage: 100 * float64(n) / float64(total),
			}
		}
		summary.PerQuestion[q.ID] = dist
	}

	if hasNPS {
		breakdown := ComputeNPS(npsValues)
		breakdown.QuestionID = npsQuestion.ID
		summary.NPS = &breakdown
	}
	return summary
}

// distributionKeys returns the values an answer contributes to its question's
// distribution. A multi-choice answer contributes every member.
func distributionKeys(q domain.Question, v domain.AnswerValue) ([]string, bool) {
	if domain.Blank(v) {
		return nil, false
	}
	profile, err := q.Type.Profile()
	if err != nil {
		return nil, false
	}
	switch profile.Shape {
	case domain.ShapeText, domain.ShapeChoice:
		text, ok := v.(domain.TextValue)
		if !ok {
			return nil, false
		}
		return []string{string(text)}, true
	case domain.ShapeChoiceSet:
		set, ok := v.(domain.SetValue)
		if !ok {
			return nil, false
		}
		return set, true
	case domain.ShapeNumber:
		n, ok := v.(domain.NumberValue)
		if !ok || !profile.InRange(int(n)) {
			return nil, false
		}
		return []string{strconv.Itoa(int(n))}, true
	default:
		return nil, false
	}
}

// NPS classes.
const (
	maxDetractor = 6
	maxPassive   = 8
)

// ComputeNPS classifies 0..10 ratings into detractors (0-6), passives (7-8)
// and promoters (9-10). Score is round(100*(promoters-detractors)/total) and
// is 0 when there are no ratings. Values outside 0..10 are ignored.
func ComputeNPS(values []int) domain.NPSBreakdown {
	var b domain.NPSBreakdown
	for _, v := range values {
		switch {
		case v < 0 || v > 10:
			continue
		case v <= maxDetractor:
			b.Detractors++
		case v <= maxPassive:
			b.Passives++
		default:
			b.Promoters++
		}
	}
	b.Total = b.Detractors + b.Passives + b.Promoters
	if b.Total == 0 {
		return b
	}
	b.Score = int(math.Round(100 * float64(b.Promoters-b.Detractors) / float64(b.Total)))
	return b
}

// OptionLabels maps question ID -> option ID -> label, for presenting
// distributions that are keyed by option ID.
func OptionLabels(survey domain.Survey) map[string]map[string]string {
	labels := make(map[string]map[string]string)
	for _, q := range survey.Questions {
		if len(q.Options) == 0 {
			continue
		}
		m := make(map[string]string, len(q.Options))
		for _, o := range q.Options {
			m[o.ID] = o.Label
		}
		labels[q.ID] = m
	}
	return labels
}

func firstOfType(survey domain.Survey, t domain.QuestionType) (domain.Question, bool) {
	for _, q := range survey.Questions {
		if q.Type == t {
			return q, true
		}
	}
	return domain.Question{}, false
}
