package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JobProgress represents the workflow stage of a job. The order is the
// intended direction of travel, but transitions are not enforced; every
// change is recorded in the job's progress history instead.
type JobProgress int

const (
	JobProgressNotStarted JobProgress = 0
	JobProgressDiagnosis  JobProgress = 1
	JobProgressRepair     JobProgress = 2
	JobProgressFinalStage JobProgress = 3
	JobProgressFinished   JobProgress = 4
)

func (p JobProgress) String() string {
	return [...]string{"not_started", "diagnosis", "repair", "final_stage", "finished"}[p]
}

// Valid reports whether the value is one of the known stages.
func (p JobProgress) Valid() bool {
	return p >= JobProgressNotStarted && p <= JobProgressFinished
}

// ParseJobProgress converts a stage label into a JobProgress value.
func ParseJobProgress(s string) (JobProgress, error) {
	switch s {
	case "not_started":
		return JobProgressNotStarted, nil
	case "diagnosis":
		return JobProgressDiagnosis, nil
	case "repair":
		return JobProgressRepair, nil
	case "final_stage":
		return JobProgressFinalStage, nil
	case "finished":
		return JobProgressFinished, nil
	}
	return JobProgressNotStarted, fmt.Errorf("unknown job progress %q", s)
}

func (p JobProgress) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *JobProgress) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*p = JobProgress(i)
		return nil
	}
	parsed, err := ParseJobProgress(str)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p JobProgress) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *JobProgress) Scan(value interface{}) error {
	if value == nil {
		*p = JobProgressNotStarted
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = JobProgress(v)
	case int:
		*p = JobProgress(v)
	}
	return nil
}
