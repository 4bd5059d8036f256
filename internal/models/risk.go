package models

import (
	"errors"
	"fmt"
)

// ErrInvalidOption is returned when a quiz answer does not exist for its question
var ErrInvalidOption = errors.New("invalid option for question")

// Unanswered marks a quiz question without a selected option
const Unanswered = -1

// RiskOption is one multiple-choice answer and the score it contributes
type RiskOption struct {
	Text  string `json:"text"`
	Score int    `json:"score"` // 1 (cautious) to 4 (aggressive)
}

// RiskQuestion is one question of the risk questionnaire
type RiskQuestion struct {
	Key     string       `json:"key"`
	Text    string       `json:"text"`
	Options []RiskOption `json:"options"`
}

// RiskBand is one of the ordered risk profiles a score maps to
type RiskBand struct {
	Name     string  `json:"name"`
	MinScore int     `json:"min_score"` // Inclusive lower bound
	Equity   float64 `json:"equity"`    // Midpoint of the band's equity range, %
	Debt     float64 `json:"debt"`
}

// RiskQuizState holds the selected option per question, in question order
type RiskQuizState struct {
	Answers []int `json:"answers"`
}

// NewRiskQuizState returns a state with every question unanswered
func NewRiskQuizState(questions int) RiskQuizState {
	answers := make([]int, questions)
	for i := range answers {
		answers[i] = Unanswered
	}
	return RiskQuizState{Answers: answers}
}

// Answer returns a copy of the state with question q set to option.
// Passing Unanswered clears the question.
func (s RiskQuizState) Answer(questions []RiskQuestion, q, option int) (RiskQuizState, error) {
	if q < 0 || q >= len(questions) || q >= len(s.Answers) {
		return s, fmt.Errorf("question %d: %w", q, ErrInvalidOption)
	}
	if option != Unanswered && (option < 0 || option >= len(questions[q].Options)) {
		return s, fmt.Errorf("question %d option %d: %w", q, option, ErrInvalidOption)
	}

	answers := append([]int(nil), s.Answers...)
	answers[q] = option
	return RiskQuizState{Answers: answers}, nil
}

// Complete reports whether every question has a valid answer
func (s RiskQuizState) Complete(questions []RiskQuestion) bool {
	if len(s.Answers) != len(questions) {
		return false
	}
	for i, a := range s.Answers {
		if a < 0 || a >= len(questions[i].Options) {
			return false
		}
	}
	return true
}

// Answered counts questions with a valid answer
func (s RiskQuizState) Answered(questions []RiskQuestion) int {
	n := 0
	for i, a := range s.Answers {
		if i < len(questions) && a >= 0 && a < len(questions[i].Options) {
			n++
		}
	}
	return n
}

// RiskProfile is the scored outcome of a completed quiz
type RiskProfile struct {
	Score int      `json:"score"`
	Band  RiskBand `json:"band"`
}
