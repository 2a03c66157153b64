package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ConfidenceLevel represents how confident the scoring model was in its
// prediction. Values include ConfidenceLow, ConfidenceMedium, and ConfidenceHigh.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// Valid reports whether c is one of the known confidence levels.
func (c ConfidenceLevel) Valid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// JSONMap stores an arbitrary JSON object in a text column.
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface for database serialization.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan JSONMap")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, m)
}

// ScorePoint is a single (timestamp, score) sample in a trend's history.
type ScorePoint struct {
	TS    time.Time `json:"ts"`
	Score int       `json:"score"`
}

// ScoreHistory is an append-only series of score samples stored as a JSON
// array. Eviction is FIFO: once the cap is reached the oldest entries are
// dropped from the front.
type ScoreHistory []ScorePoint

// Append returns the history with p appended, trimmed to at most limit
// entries. The receiver is not mutated.
func (h ScoreHistory) Append(p ScorePoint, limit int) ScoreHistory {
	out := make(ScoreHistory, 0, len(h)+1)
	out = append(out, h...)
	out = append(out, p)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Value implements the driver.Valuer interface for database serialization.
func (h ScoreHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (h *ScoreHistory) Scan(value interface{}) error {
	if value == nil {
		*h = ScoreHistory{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan ScoreHistory")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, h)
}

// Trend represents one AI-scored trend topic. The title is the merge key for
// idempotent upserts; the id never changes after first insert.
type Trend struct {
	ID              string          `gorm:"type:text;primaryKey" json:"id"`
	Title           string          `gorm:"type:text;not null;uniqueIndex:idx_trends_title" json:"title"`
	Score           int             `json:"score"`
	ConfidenceLevel ConfidenceLevel `gorm:"type:text;default:low" json:"confidence_level"`
	Examples        StringArray     `gorm:"type:text" json:"examples"`
	Explain         string          `gorm:"column:explain;type:text" json:"explain"`
	SuggestedTags   StringArray     `gorm:"type:text" json:"suggested_tags"`
	RawAI           string          `gorm:"column:raw_ai;type:text" json:"raw_ai"`
	Sources         JSONMap         `gorm:"type:text" json:"sources"`
	ScoreHistory    ScoreHistory    `gorm:"type:text" json:"score_history"`
	CreatedAt       time.Time       `json:"created_at"`
	LastScoredAt    time.Time       `json:"last_scored_at"`
}

// TableName returns the database table name for Trend.
func (Trend) TableName() string {
	return "trends"
}
