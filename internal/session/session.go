// Package session holds the applicant's current selection: event type, team
// size and the price derived from them. The price is recomputed synchronously
// on every change, so readers never observe a stale value.
package session

import (
	"fmt"

	"github.com/techmania/registration-service/internal/models"
	"github.com/techmania/registration-service/internal/pricing"
)

const (
	DefaultEventType = models.EventCombo
	DefaultTeamSize  = 2
)

type Session struct {
	eventType models.EventType
	teamSize  int
	price     int
}

// New returns a session with the default selection (combo, team of 2).
func New() *Session {
	s := &Session{}
	s.Reset()
	return s
}

func (s *Session) SetEventType(eventType models.EventType) error {
	price, err := pricing.Price(eventType, s.teamSize)
	if err != nil {
		return err
	}
	s.eventType = eventType
	s.price = price
	return nil
}

func (s *Session) SetTeamSize(teamSize int) error {
	price, err := pricing.Price(s.eventType, teamSize)
	if err != nil {
		return err
	}
	s.teamSize = teamSize
	s.price = price
	return nil
}

// Reset restores the default selection.
func (s *Session) Reset() {
	s.eventType = DefaultEventType
	s.teamSize = DefaultTeamSize
	s.price, _ = pricing.Price(DefaultEventType, DefaultTeamSize)
}

func (s *Session) EventType() models.EventType { return s.eventType }
func (s *Session) TeamSize() int               { return s.teamSize }

// CurrentPrice returns the fee for the current selection.
func (s *Session) CurrentPrice() int { return s.price }

// MemberField describes one member-name input the presentation layer should
// render. The first slot is always the team lead.
type MemberField struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
}

// MemberFields returns the ordered input descriptors for a team of the given
// size.
func MemberFields(teamSize int) []MemberField {
	fields := make([]MemberField, 0, teamSize)
	for i := 1; i <= teamSize; i++ {
		f := MemberField{
			Name:        fmt.Sprintf("member%d", i),
			Label:       fmt.Sprintf("Member %d", i),
			Placeholder: fmt.Sprintf("Full name of member %d", i),
			Required:    true,
		}
		if i == 1 {
			f.Label = "Team Lead (Member 1)"
			f.Placeholder = "Full name of team lead"
		}
		fields = append(fields, f)
	}
	return fields
}
