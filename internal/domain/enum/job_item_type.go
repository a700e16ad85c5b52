package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JobItemType classifies a billable line: normed labor, a part, or anything
// else (consumables, external services). Net ledger lines use the same split.
type JobItemType int

const (
	JobItemTypeLabor JobItemType = 0
	JobItemTypePart  JobItemType = 1
	JobItemTypeOther JobItemType = 2
)

func (t JobItemType) String() string {
	return [...]string{"labor", "part", "other"}[t]
}

// Valid reports whether the value is one of the known item types.
func (t JobItemType) Valid() bool {
	return t >= JobItemTypeLabor && t <= JobItemTypeOther
}

// ParseJobItemType converts an item type label into a JobItemType value.
func ParseJobItemType(s string) (JobItemType, error) {
	switch s {
	case "labor":
		return JobItemTypeLabor, nil
	case "part":
		return JobItemTypePart, nil
	case "other":
		return JobItemTypeOther, nil
	}
	return JobItemTypeLabor, fmt.Errorf("unknown job item type %q", s)
}

func (t JobItemType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *JobItemType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = JobItemType(i)
		return nil
	}
	parsed, err := ParseJobItemType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t JobItemType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *JobItemType) Scan(value interface{}) error {
	if value == nil {
		*t = JobItemTypeLabor
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = JobItemType(v)
	case int:
		*t = JobItemType(v)
	}
	return nil
}
