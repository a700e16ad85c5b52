package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AppointmentStatus represents the state of a scheduled appointment
type AppointmentStatus int

const (
	AppointmentStatusScheduled AppointmentStatus = 0
	AppointmentStatusConfirmed AppointmentStatus = 1
	AppointmentStatusArrived   AppointmentStatus = 2
	AppointmentStatusCompleted AppointmentStatus = 3
	AppointmentStatusCanceled  AppointmentStatus = 4
	AppointmentStatusNoShow    AppointmentStatus = 5
)

func (s AppointmentStatus) String() string {
	return [...]string{"scheduled", "confirmed", "arrived", "completed", "canceled", "no_show"}[s]
}

// Valid reports whether the value is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	return s >= AppointmentStatusScheduled && s <= AppointmentStatusNoShow
}

// ParseAppointmentStatus converts a status label into an AppointmentStatus value.
func ParseAppointmentStatus(str string) (AppointmentStatus, error) {
	switch str {
	case "scheduled":
		return AppointmentStatusScheduled, nil
	case "confirmed":
		return AppointmentStatusConfirmed, nil
	case "arrived":
		return AppointmentStatusArrived, nil
	case "completed":
		return AppointmentStatusCompleted, nil
	case "canceled":
		return AppointmentStatusCanceled, nil
	case "no_show":
		return AppointmentStatusNoShow, nil
	}
	return AppointmentStatusScheduled, fmt.Errorf("unknown appointment status %q", str)
}

func (s AppointmentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *AppointmentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = AppointmentStatus(i)
		return nil
	}
	parsed, err := ParseAppointmentStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s AppointmentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *AppointmentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = AppointmentStatusScheduled
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = AppointmentStatus(v)
	case int:
		*s = AppointmentStatus(v)
	}
	return nil
}
