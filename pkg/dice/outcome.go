package dice

// Outcome grades a check against a difficulty class.
type Outcome string

const (
	OutcomeCriticalFailure Outcome = "critical_failure"
	OutcomeFailure         Outcome = "failure"
	OutcomeSuccess         Outcome = "success"
	OutcomeCriticalSuccess Outcome = "critical_success"
)

// Outcomes lists every tier from worst to best.
var Outcomes = []Outcome{OutcomeCriticalFailure, OutcomeFailure, OutcomeSuccess, OutcomeCriticalSuccess}

// IsSuccess reports whether the tier is a success of either kind.
func (o Outcome) IsSuccess() bool {
	return o == OutcomeSuccess || o == OutcomeCriticalSuccess
}

// Against grades the check against dc. A natural 20 or 1 overrides the total.
func (c Check) Against(dc int) Outcome {
	switch {
	case c.IsCriticalSuccess:
		return OutcomeCriticalSuccess
	case c.IsCriticalFailure:
		return OutcomeCriticalFailure
	case c.Total >= dc:
		return OutcomeSuccess
	default:
		return OutcomeFailure
	}
}
