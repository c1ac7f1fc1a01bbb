package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/techmania/registration-service/internal/export"
	"github.com/techmania/registration-service/internal/models"
	"github.com/techmania/registration-service/internal/repository"
	"github.com/techmania/registration-service/internal/session"
)

var (
	ErrIncompleteTeam       = errors.New("team member names incomplete")
	ErrInvalidMobile        = errors.New("mobile number must be exactly 10 digits")
	ErrInvalidTransactionID = errors.New("transaction id must be at least 5 characters")
)

// IncompleteTeamError reports how many member names were expected versus how
// many non-blank names the form carried.
type IncompleteTeamError struct {
	Required int
	Provided int
}

func (e *IncompleteTeamError) Error() string {
	return fmt.Sprintf("expected %d team member names, got %d", e.Required, e.Provided)
}

func (e *IncompleteTeamError) Is(target error) bool {
	return target == ErrIncompleteTeam
}

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// RawRegistration is the untrusted form input. Members holds the name slots
// in form order; blanks are dropped during validation.
type RawRegistration struct {
	TeamName      string
	Members       []string
	Mobile        string
	TransactionID string
}

// Stats aggregates the store for the admin dashboard. ByEvent has an entry
// for each of the three known types; unknown types count toward Total only.
type Stats struct {
	Total   int
	ByEvent map[models.EventType]int
}

// Publisher sends registration lifecycle notifications, typically to a
// RabbitMQ topic exchange. Submissions succeed even when publishing fails.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

type RegistrationService interface {
	Build(raw RawRegistration, sel *session.Session) (*models.Registration, error)
	Submit(ctx context.Context, raw RawRegistration, sel *session.Session) (*models.Registration, error)
	Stats(ctx context.Context) (*Stats, error)
	List(ctx context.Context, filter *models.EventType) ([]models.Registration, error)
	ExportCSV(ctx context.Context) (string, error)
}

type registrationService struct {
	repo      repository.RegistrationRepository
	publisher Publisher
	delay     time.Duration
	now       func() time.Time
	newID     func() string
}

// NewRegistrationService wires the store and an optional publisher. delay is
// the simulated confirmation latency from the original flow; pass zero to
// acknowledge immediately.
func NewRegistrationService(repo repository.RegistrationRepository, publisher Publisher, delay time.Duration) RegistrationService {
	return &registrationService{
		repo:      repo,
		publisher: publisher,
		delay:     delay,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Build validates the raw input against the current selection and constructs
// a registration. Rules run in order and the first failure wins. Build has no
// side effects; appending to the store is the caller's step.
func (s *registrationService) Build(raw RawRegistration, sel *session.Session) (*models.Registration, error) {
	members := make([]string, 0, sel.TeamSize())
	for _, m := range raw.Members {
		if name := strings.TrimSpace(m); name != "" {
			members = append(members, name)
		}
	}
	if len(members) != sel.TeamSize() {
		return nil, &IncompleteTeamError{Required: sel.TeamSize(), Provided: len(members)}
	}

	if !mobilePattern.MatchString(raw.Mobile) {
		return nil, ErrInvalidMobile
	}

	transactionID := strings.TrimSpace(raw.TransactionID)
	if len(transactionID) < 5 {
		return nil, ErrInvalidTransactionID
	}

	return &models.Registration{
		ID:              s.newID(),
		TeamName:        strings.TrimSpace(raw.TeamName),
		EventType:       sel.EventType(),
		TeamSize:        sel.TeamSize(),
		TeamLead:        members[0],
		TeamMembers:     members,
		Mobile:          raw.Mobile,
		TransactionID:   transactionID,
		RegistrationFee: sel.CurrentPrice(),
		CreatedAt:       s.now(),
	}, nil
}

// Submit builds, waits out the confirmation delay, commits the registration
// and notifies downstream consumers. A persistence failure after the commit
// is logged rather than surfaced; the registration stands.
func (s *registrationService) Submit(ctx context.Context, raw RawRegistration, sel *session.Session) (*models.Registration, error) {
	reg, err := s.Build(raw, sel)
	if err != nil {
		return nil, err
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := s.repo.Append(ctx, reg); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return nil, err
		}
		log.Printf("[Registration] failed to save registrations: %v", err)
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("registration.created", reg)
	}

	return reg, nil
}

func (s *registrationService) Stats(ctx context.Context) (*Stats, error) {
	regs, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Total: len(regs),
		ByEvent: map[models.EventType]int{
			models.EventHackathon: 0,
			models.EventCoding:    0,
			models.EventCombo:     0,
		},
	}
	for _, reg := range regs {
		if _, known := stats.ByEvent[reg.EventType]; known {
			stats.ByEvent[reg.EventType]++
		}
	}
	return stats, nil
}

// List returns registrations newest first, optionally filtered by event type.
// Records sharing a timestamp keep their submission order.
func (s *registrationService) List(ctx context.Context, filter *models.EventType) ([]models.Registration, error) {
	regs, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	if filter != nil {
		filtered := regs[:0]
		for _, reg := range regs {
			if reg.EventType == *filter {
				filtered = append(filtered, reg)
			}
		}
		regs = filtered
	}

	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].CreatedAt.After(regs[j].CreatedAt)
	})
	return regs, nil
}

func (s *registrationService) ExportCSV(ctx context.Context) (string, error) {
	regs, err := s.List(ctx, nil)
	if err != nil {
		return "", err
	}
	return export.CSV(regs)
}
