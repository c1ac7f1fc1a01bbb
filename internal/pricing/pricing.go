package pricing

import (
	"errors"

	"github.com/techmania/registration-service/internal/models"
)

var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrInvalidTeamSize  = errors.New("team size must be between 1 and 4")
)

// Fees in rupees, indexed by team size 1..4.
var table = map[models.EventType][4]int{
	models.EventHackathon: {159, 299, 399, 499},
	models.EventCoding:    {139, 139, 139, 139},
	models.EventCombo:     {249, 479, 649, 879},
}

// Price returns the registration fee for the given event type and team size.
func Price(eventType models.EventType, teamSize int) (int, error) {
	fees, ok := table[eventType]
	if !ok {
		return 0, ErrUnknownEventType
	}
	if !models.ValidTeamSize(teamSize) {
		return 0, ErrInvalidTeamSize
	}
	return fees[teamSize-1], nil
}

// Table returns a copy of the full price table keyed by event type and team size.
func Table() map[models.EventType]map[int]int {
	out := make(map[models.EventType]map[int]int, len(table))
	for eventType, fees := range table {
		sizes := make(map[int]int, len(fees))
		for i, fee := range fees {
			sizes[i+1] = fee
		}
		out[eventType] = sizes
	}
	return out
}
