// Package scoring interprets challenge configuration documents and computes
// scores, completion percentages, and tiers from reported progress.
//
// Configuration documents are admin-authored and trusted: interpretation
// never fails, every missing or malformed field falls back to a documented
// default.
package scoring

import "encoding/json"

// Method selects how a score is computed from reported progress.
type Method string

// Scoring methods.
const (
	MethodCount      Method = "count"
	MethodPercentage Method = "percentage"
	MethodPoints     Method = "points"
)

// GoalType selects how the completion percentage is computed.
type GoalType string

// Goal types.
const (
	GoalCollection GoalType = "collection"
	GoalCumulative GoalType = "cumulative"
)

// Tier is one (threshold, id) pair from the configuration, kept in the
// order the author listed it.
type Tier struct {
	Threshold int    `json:"threshold"`
	ID        string `json:"id"`
}

// Policy is the interpreted, defaulted form of a challenge's configuration.
// It is rebuilt from the stored document on every request so it always
// reflects the latest challenge edit.
type Policy struct {
	Method      Method
	GoalType    GoalType
	TotalGoals  int
	TargetValue int
	Tiers       []Tier
}

// rawConfig mirrors the configuration document shape loosely; unknown keys
// are ignored and absent keys stay at zero values.
type rawConfig struct {
	Scoring struct {
		Method string `json:"method"`
	} `json:"scoring"`
	Goals struct {
		Type        string            `json:"type"`
		Items       []json.RawMessage `json:"items"`
		TargetValue *int              `json:"targetValue"`
	} `json:"goals"`
	Tiers []struct {
		Threshold *int   `json:"threshold"`
		ID        string `json:"id"`
	} `json:"tiers"`
}

// Interpret builds a Policy from a challenge configuration document.
// Defaults: method "count", goal type "collection", zero goals, target
// value 100, no tiers. A document that fails to parse at all yields the
// all-defaults policy.
func Interpret(configuration json.RawMessage) Policy {
	var raw rawConfig
	// Errors intentionally ignored: partial decodes keep whatever parsed.
	_ = json.Unmarshal(configuration, &raw)

	policy := Policy{
		Method:      MethodCount,
		GoalType:    GoalCollection,
		TotalGoals:  len(raw.Goals.Items),
		TargetValue: 100,
	}

	switch Method(raw.Scoring.Method) {
	case MethodCount, MethodPercentage, MethodPoints:
		policy.Method = Method(raw.Scoring.Method)
	}

	if raw.Goals.Type != "" {
		policy.GoalType = GoalType(raw.Goals.Type)
	}
	if raw.Goals.TargetValue != nil {
		policy.TargetValue = *raw.Goals.TargetValue
	}

	for _, t := range raw.Tiers {
		if t.Threshold == nil || t.ID == "" {
			continue
		}
		policy.Tiers = append(policy.Tiers, Tier{Threshold: *t.Threshold, ID: t.ID})
	}

	return policy
}
