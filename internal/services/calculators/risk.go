package calculators

import (
	"fmt"

	"finplan/internal/models"
)

func options(texts ...string) []models.RiskOption {
	opts := make([]models.RiskOption, len(texts))
	for i, t := range texts {
		opts[i] = models.RiskOption{Text: t, Score: i + 1}
	}
	return opts
}

// RiskQuestions is the fixed questionnaire. Options are ordered from the most
// cautious (score 1) to the most aggressive (score 4).
var RiskQuestions = []models.RiskQuestion{
	{Key: "q1", Text: "What is your age group?", Options: options("Above 55", "45 to 55", "35 to 45", "Below 35")},
	{Key: "q2", Text: "When will you need most of this money?", Options: options("Within 3 years", "3 to 5 years", "5 to 10 years", "After 10 years")},
	{Key: "q3", Text: "What is your main investment goal?", Options: options("Protect my capital", "Regular income", "Balanced growth", "Maximum growth")},
	{Key: "q4", Text: "Your portfolio drops 20% in a month. What do you do?", Options: options("Sell everything", "Sell some", "Hold", "Buy more")},
	{Key: "q5", Text: "How stable is your income?", Options: options("Uncertain", "Somewhat stable", "Stable", "Very stable and growing")},
	{Key: "q6", Text: "How many months of expenses do you hold as an emergency fund?", Options: options("None", "Less than 3", "3 to 6", "More than 6")},
	{Key: "q7", Text: "How familiar are you with equity investing?", Options: options("Not at all", "Basic", "Good", "Expert")},
	{Key: "q8", Text: "Which yearly outcome range would you accept?", Options: options("0% to 6%", "-5% to 12%", "-15% to 25%", "-30% to 45%")},
}

// RiskBands are ordered by ascending MinScore
var RiskBands = []models.RiskBand{
	{Name: "Conservative", MinScore: 0, Equity: 15, Debt: 85},
	{Name: "Moderate", MinScore: 20, Equity: 40, Debt: 60},
	{Name: "Balanced", MinScore: 25, Equity: 62.5, Debt: 37.5},
	{Name: "Aggressive", MinScore: 29, Equity: 87.5, Debt: 12.5},
}

// BandForScore maps a quiz score to the highest band whose threshold it meets
func BandForScore(score int) models.RiskBand {
	band := RiskBands[0]
	for _, b := range RiskBands {
		if score >= b.MinScore {
			band = b
		}
	}
	return band
}

// ScoreRiskQuiz sums the chosen option scores of a completed quiz
func ScoreRiskQuiz(questions []models.RiskQuestion, state models.RiskQuizState) (models.RiskProfile, error) {
	if !state.Complete(questions) {
		return models.RiskProfile{}, fmt.Errorf("%d of %d questions answered: %w",
			state.Answered(questions), len(questions), models.ErrInvalidOption)
	}

	score := 0
	for i, a := range state.Answers {
		score += questions[i].Options[a].Score
	}
	return models.RiskProfile{Score: score, Band: BandForScore(score)}, nil
}

// RiskQuizFromParams builds quiz state from q1..qN option indexes. Missing or
// out-of-range answers stay unanswered.
func RiskQuizFromParams(p models.Params, _ bool) models.RiskQuizState {
	state := models.NewRiskQuizState(len(RiskQuestions))
	for i, q := range RiskQuestions {
		next, err := state.Answer(RiskQuestions, i, p.Int(q.Key, models.Unanswered))
		if err == nil {
			state = next
		}
	}
	return state
}

// RiskResult is the outcome of the questionnaire
type RiskResult struct {
	State    models.RiskQuizState
	Answered int
	Profile  *models.RiskProfile // nil until every question is answered
}

// CalculateRiskProfile scores the quiz when it is complete
func CalculateRiskProfile(state models.RiskQuizState) RiskResult {
	result := RiskResult{State: state, Answered: state.Answered(RiskQuestions)}
	if profile, err := ScoreRiskQuiz(RiskQuestions, state); err == nil {
		result.Profile = &profile
	}
	return result
}

// Result adapts the quiz outcome to the generic result
func (r RiskResult) Result() *models.CalculationResult {
	res := &models.CalculationResult{
		Tool: models.CalcRiskProfile,
		Figures: []models.Figure{
			figure("answered", "Questions answered", float64(r.Answered), models.UnitScore),
		},
		Series: []models.YearlyDataPoint{},
	}
	if r.Profile != nil {
		res.Label = r.Profile.Band.Name
		res.Figures = append(res.Figures,
			figure("score", "Risk score", float64(r.Profile.Score), models.UnitScore),
			figure("equity", "Equity allocation", r.Profile.Band.Equity, models.UnitPercent),
			figure("debt", "Debt allocation", r.Profile.Band.Debt, models.UnitPercent),
		)
	}
	return res
}
