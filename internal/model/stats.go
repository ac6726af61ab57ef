package model

import (
	"encoding/json"
	"fmt"
)

// GroupCount is the number of observations sharing one value of a
// categorical column.  It is encoded with the column name as key, e.g.
// {"status":"pass","count":3}, which is what existing clients read.
type GroupCount struct {
	Field string // column the rows were grouped by
	Value string // distinct column value
	Count int64  // number of rows with Value
}

// MarshalJSON writes the count as {"<field>": value, "count": n}.
func (g GroupCount) MarshalJSON() ([]byte, error) {
	field := g.Field
	if field == "" {
		field = "value"
	}
	return json.Marshal(map[string]any{
		field:   g.Value,
		"count": g.Count,
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.  The key other than "count"
// is taken as the grouped field; an object with more than one is rejected.
func (g *GroupCount) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*g = GroupCount{}
	for k, v := range raw {
		if k == "count" {
			if err := json.Unmarshal(v, &g.Count); err != nil {
				return err
			}
			continue
		}
		if g.Field != "" {
			return fmt.Errorf("group count has fields %q and %q", g.Field, k)
		}
		g.Field = k
		if err := json.Unmarshal(v, &g.Value); err != nil {
			return err
		}
	}
	return nil
}

// Stats bundles the three groupings returned by GET /api/stats.
type Stats struct {
	ByStatus  []GroupCount `json:"byStatus"`
	ByMethod  []GroupCount `json:"byMethod"`
	ByQuality []GroupCount `json:"byQuality"`
}

// Total sums the counts of one grouping.
func Total(groups []GroupCount) int64 {
	var n int64
	for _, g := range groups {
		n += g.Count
	}
	return n
}
