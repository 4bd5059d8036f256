package models

import "time"

// Scenario is a saved calculator state. Params are persisted in their
// shareable query form so a scenario restores exactly like a share link.
type Scenario struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Tool      CalculatorID `json:"tool"`
	Advanced  bool         `json:"advanced"`
	Query     string       `json:"query"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ScenarioFile is the on-disk document holding all saved scenarios
type ScenarioFile struct {
	Version   int        `json:"version"`
	Scenarios []Scenario `json:"scenarios"`

	// Recently removed, kept for restore
	Removed []Scenario `json:"removed,omitempty"`
}
