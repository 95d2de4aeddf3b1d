package eureka

import (
	"time"

	"github.com/google/uuid"
)

// Insight is a compact, timestamped record of what was learned from one
// analyzed attempt. Insights are created once per analysis and never
// mutated; the store assigns the timestamp when the insight is recorded.
//
// The json key "strategy" (singular) matches the knowledge-file format.
type Insight struct {
	ID           string  `json:"-" db:"id" type:"uuid" constraints:"primarykey" default:"gen_random_uuid()"`
	Goal         string  `json:"goal" db:"goal" type:"text" constraints:"notnull"`
	Strategies   Tags    `json:"strategy" db:"strategies" type:"jsonb" default:"'[]'"`
	Success      bool    `json:"success" db:"success" type:"boolean" constraints:"notnull"`
	KeyLearning  string  `json:"key_learning" db:"key_learning" type:"text"`
	Significance float64 `json:"significance" db:"significance" type:"float8" constraints:"notnull"`
	Timestamp    string  `json:"timestamp" db:"recorded" type:"text"`
}

// stamp assigns the record identity and creation timestamp as an ISO-8601
// string. IDs are assigned application-side so the insight is addressable
// before any backend sees it.
func (i *Insight) stamp(now time.Time) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	i.Timestamp = now.Format(time.RFC3339)
}
