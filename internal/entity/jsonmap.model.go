package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// ExtraFields holds domain-specific columns that have no dedicated field on
// the owning record. Stored as jsonb so nothing from the source file is lost.
type ExtraFields map[string]string

func (e ExtraFields) Value() (driver.Value, error) {
	if len(e) == 0 {
		return nil, nil
	}
	return json.Marshal(e)
}

func (e *ExtraFields) Scan(value interface{}) error {
	return scanJSON(value, e)
}

func (ExtraFields) GormDataType() string {
	return "jsonb"
}

// DomainCounts maps a 2-letter domain code to the number of rows processed.
type DomainCounts map[string]int

func (d DomainCounts) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *DomainCounts) Scan(value interface{}) error {
	return scanJSON(value, d)
}

func (DomainCounts) GormDataType() string {
	return "jsonb"
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported type for jsonb column")
	}
}
