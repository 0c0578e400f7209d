package scoring

import "math"

// Score computes the integer score for a reported progress payload.
//
// Dispatch is on the scoring method. Reported goals are counted verbatim:
// duplicates inflate the count, unknown goal identifiers count too. An
// unrecognized method never reaches here (Interpret defaults it to count).
func (p Policy) Score(completedGoals []string, currentValue int) int {
	switch p.Method {
	case MethodPercentage:
		if p.TotalGoals <= 0 {
			return 0
		}
		return int(math.Round(float64(len(completedGoals)) / float64(p.TotalGoals) * 100))
	case MethodPoints:
		return currentValue
	default:
		return len(completedGoals)
	}
}

// Percentage computes the completion percentage reported to clients.
//
// Dispatch is on the goal type, NOT the scoring method — the two paths can
// legitimately diverge (e.g. points scoring over a collection goal). Callers
// rely on that split; do not unify it with Score.
func (p Policy) Percentage(completedCount, currentValue int) float64 {
	switch p.GoalType {
	case GoalCollection:
		if p.TotalGoals <= 0 {
			return 0
		}
		return float64(completedCount) / float64(p.TotalGoals) * 100
	case GoalCumulative:
		if p.TargetValue <= 0 {
			return 0
		}
		return float64(currentValue) / float64(p.TargetValue) * 100
	default:
		return 0
	}
}
