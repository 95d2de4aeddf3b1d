package eureka

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Category names for the seeded catalogue sections. The key set is open:
// unknown categories round-trip through the catalogue untouched, and
// CategoryLearnedPatterns appears lazily on the first promoted insight.
const (
	CategoryStrategies      = "strategies"
	CategoryCommonErrors    = "common_errors"
	CategoryOptimizations   = "optimization_techniques"
	CategoryLearnedPatterns = "learned_patterns"
)

// Tags is an ordered list of domain tags, stored as jsonb when the
// catalogue lives in Postgres.
type Tags []string

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(src any) error {
	if src == nil {
		*t = nil
		return nil
	}
	var b []byte
	switch val := src.(type) {
	case []byte:
		b = val
	case string:
		b = []byte(val)
	default:
		return fmt.Errorf("cannot scan %T into Tags", src)
	}
	return json.Unmarshal(b, t)
}

// Strategy is a named, reusable problem-solving pattern with applicability
// tags. Strategies are immutable once loaded; the catalogue is only ever
// replaced wholesale on load.
type Strategy struct {
	Name         string `json:"name" db:"name" type:"text" constraints:"primarykey"`
	Description  string `json:"description" db:"description" type:"text" constraints:"notnull"`
	ApplicableTo Tags   `json:"applicable_to" db:"applicable_to" type:"jsonb" default:"'[]'"`
	Example      string `json:"example" db:"example" type:"text"`
}

// ErrorPattern describes a recurring class of mistakes and how to avoid it.
type ErrorPattern struct {
	Type        string `json:"type" db:"type" type:"text" constraints:"primarykey"`
	Description string `json:"description" db:"description" type:"text" constraints:"notnull"`
	Prevention  string `json:"prevention" db:"prevention" type:"text"`
}

// Technique is a named optimization technique with its use case.
type Technique struct {
	Name        string `json:"name" db:"name" type:"text" constraints:"primarykey"`
	Description string `json:"description" db:"description" type:"text" constraints:"notnull"`
	UseCase     string `json:"use_case" db:"use_case" type:"text"`
}

// Catalogue is the single source of durable problem-solving knowledge: a
// mapping from category name to an ordered sequence of category-specific
// records. The four seeded categories are typed; any other category found
// in the knowledge file is preserved verbatim in Extra.
type Catalogue struct {
	Strategies             []Strategy
	CommonErrors           []ErrorPattern
	OptimizationTechniques []Technique

	// LearnedPatterns is nil until the first insight is promoted; the
	// category is created lazily to match the knowledge file's shape.
	LearnedPatterns []Insight

	// Extra holds unknown categories untouched.
	Extra map[string]json.RawMessage
}

// MarshalJSON renders the catalogue as the knowledge-file document: one key
// per category. learned_patterns is omitted until the category exists.
func (c *Catalogue) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, 4+len(c.Extra))

	put := func(key string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal category %q: %w", key, err)
		}
		out[key] = b
		return nil
	}

	if err := put(CategoryStrategies, c.Strategies); err != nil {
		return nil, err
	}
	if err := put(CategoryCommonErrors, c.CommonErrors); err != nil {
		return nil, err
	}
	if err := put(CategoryOptimizations, c.OptimizationTechniques); err != nil {
		return nil, err
	}
	if c.LearnedPatterns != nil {
		if err := put(CategoryLearnedPatterns, c.LearnedPatterns); err != nil {
			return nil, err
		}
	}
	for key, raw := range c.Extra {
		if _, known := out[key]; !known {
			out[key] = raw
		}
	}

	return json.Marshal(out)
}

// UnmarshalJSON parses a knowledge-file document, keeping unknown categories
// in Extra.
func (c *Catalogue) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	take := func(key string, v any) error {
		b, ok := raw[key]
		if !ok {
			return nil
		}
		delete(raw, key)
		if err := json.Unmarshal(b, v); err != nil {
			return fmt.Errorf("failed to unmarshal category %q: %w", key, err)
		}
		return nil
	}

	*c = Catalogue{}
	if err := take(CategoryStrategies, &c.Strategies); err != nil {
		return err
	}
	if err := take(CategoryCommonErrors, &c.CommonErrors); err != nil {
		return err
	}
	if err := take(CategoryOptimizations, &c.OptimizationTechniques); err != nil {
		return err
	}
	if err := take(CategoryLearnedPatterns, &c.LearnedPatterns); err != nil {
		return err
	}
	if len(raw) > 0 {
		c.Extra = raw
	}
	return nil
}

// SeedCatalogue returns a fresh copy of the built-in knowledge set, used
// whenever durable storage is absent or unreadable. The entries are
// documented constants of the system, not derived data.
func SeedCatalogue() *Catalogue {
	return &Catalogue{
		Strategies: []Strategy{
			{
				Name:         "Divide and Conquer",
				Description:  "Break complex problems into smaller subproblems",
				ApplicableTo: Tags{"optimization", "search", "mathematical problems"},
				Example:      "Finding prime numbers by checking divisibility up to sqrt(n)",
			},
			{
				Name:         "Iterative Refinement",
				Description:  "Start with a basic solution and improve it iteratively",
				ApplicableTo: Tags{"algorithms", "numerical methods", "approximations"},
				Example:      "Newton's method for finding roots",
			},
			{
				Name:         "Pattern Recognition",
				Description:  "Identify patterns in the problem to simplify the solution",
				ApplicableTo: Tags{"sequences", "mathematical series", "data analysis"},
				Example:      "Recognizing Fibonacci patterns in problems",
			},
		},
		CommonErrors: []ErrorPattern{
			{
				Type:        "Off-by-one errors",
				Description: "Errors in loop boundaries or array indices",
				Prevention:  "Carefully check loop conditions and test edge cases",
			},
			{
				Type:        "Integer overflow",
				Description: "Results exceeding data type limits",
				Prevention:  "Use appropriate data types and check for overflow conditions",
			},
		},
		OptimizationTechniques: []Technique{
			{
				Name:        "Memoization",
				Description: "Cache results of expensive function calls",
				UseCase:     "Recursive algorithms with overlapping subproblems",
			},
			{
				Name:        "Early termination",
				Description: "Stop computation when result is found or impossible",
				UseCase:     "Search algorithms and validation checks",
			},
		},
	}
}
