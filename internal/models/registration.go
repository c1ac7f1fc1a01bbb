package models

import "time"

type EventType string

const (
	EventHackathon EventType = "hackathon"
	EventCoding    EventType = "coding"
	EventCombo     EventType = "combo"
)

// Valid reports whether the event type is one of the three offerings.
func (e EventType) Valid() bool {
	switch e {
	case EventHackathon, EventCoding, EventCombo:
		return true
	}
	return false
}

const (
	MinTeamSize = 1
	MaxTeamSize = 4
)

func ValidTeamSize(n int) bool {
	return n >= MinTeamSize && n <= MaxTeamSize
}

// Registration is a committed submission. Records are immutable after
// creation; there is no per-record delete, only full store replacement on
// load. JSON field names match the persisted wire format.
type Registration struct {
	ID              string    `json:"id"`
	TeamName        string    `json:"teamName"`
	EventType       EventType `json:"eventType"`
	TeamSize        int       `json:"teamSize"`
	TeamLead        string    `json:"teamLead"`
	TeamMembers     []string  `json:"teamMembers"`
	Mobile          string    `json:"mobile"`
	TransactionID   string    `json:"transactionId"`
	RegistrationFee int       `json:"registrationFee"`
	CreatedAt       time.Time `json:"createdAt"`
}
