package entities

import "time"

// StepResult is the outcome of one check
type StepResult struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ScenarioReport is the outcome of one scenario run
type ScenarioReport struct {
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Steps    []StepResult  `json:"steps"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// FailedStep - returns the first failed step, if any
func (r ScenarioReport) FailedStep() (StepResult, bool) {
	for _, s := range r.Steps {
		if !s.Passed {
			return s, true
		}
	}
	return StepResult{}, false
}
