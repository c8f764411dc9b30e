package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TeamMember is one flashcard-team participant attached to a session,
// challenge or saved team.
type TeamMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// RoundResult is the per-round outcome of a game session.
type RoundResult struct {
	Round   int    `json:"round"`
	Score   int    `json:"score"`
	Details string `json:"details"`
}

// TeamMembers is stored as a JSON column.
type TeamMembers []TeamMember

// Value implements driver.Valuer.
func (m TeamMembers) Value() (driver.Value, error) {
	if m == nil {
		m = TeamMembers{}
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *TeamMembers) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// RoundResults is stored as a JSON column.
type RoundResults []RoundResult

// Value implements driver.Valuer.
func (r RoundResults) Value() (driver.Value, error) {
	if r == nil {
		r = RoundResults{}
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner.
func (r *RoundResults) Scan(value interface{}) error {
	return scanJSON(value, r)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
}
