package dto

import (
	"time"

	"github.com/techmania/registration-service/internal/models"
	"github.com/techmania/registration-service/internal/service"
	"github.com/techmania/registration-service/internal/session"
)

type RegistrationResponse struct {
	ID              string           `json:"id"`
	TeamName        string           `json:"teamName"`
	EventType       models.EventType `json:"eventType"`
	TeamSize        int              `json:"teamSize"`
	TeamLead        string           `json:"teamLead"`
	TeamMembers     []string         `json:"teamMembers"`
	Mobile          string           `json:"mobile"`
	TransactionID   string           `json:"transactionId"`
	RegistrationFee int              `json:"registrationFee"`
	CreatedAt       time.Time        `json:"createdAt"`
}

type StatsResponse struct {
	Total     int `json:"total"`
	Hackathon int `json:"hackathon"`
	Coding    int `json:"coding"`
	Combo     int `json:"combo"`
}

type QuoteResponse struct {
	EventType models.EventType `json:"eventType"`
	TeamSize  int              `json:"teamSize"`
	Price     int              `json:"price"`
}

// FormResponse describes the member-name inputs the client should render for
// the given selection, alongside the price it implies.
type FormResponse struct {
	EventType models.EventType      `json:"eventType"`
	TeamSize  int                   `json:"teamSize"`
	Price     int                   `json:"price"`
	Fields    []session.MemberField `json:"fields"`
}

func ToRegistrationResponse(reg *models.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:              reg.ID,
		TeamName:        reg.TeamName,
		EventType:       reg.EventType,
		TeamSize:        reg.TeamSize,
		TeamLead:        reg.TeamLead,
		TeamMembers:     reg.TeamMembers,
		Mobile:          reg.Mobile,
		TransactionID:   reg.TransactionID,
		RegistrationFee: reg.RegistrationFee,
		CreatedAt:       reg.CreatedAt,
	}
}

func ToStatsResponse(stats *service.Stats) StatsResponse {
	return StatsResponse{
		Total:     stats.Total,
		Hackathon: stats.ByEvent[models.EventHackathon],
		Coding:    stats.ByEvent[models.EventCoding],
		Combo:     stats.ByEvent[models.EventCombo],
	}
}
