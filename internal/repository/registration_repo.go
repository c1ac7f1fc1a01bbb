package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/techmania/registration-service/internal/models"
	"github.com/techmania/registration-service/pkg/storage"
)

// StorageKey is the single key the whole registration store is persisted
// under, matching the original widget's local storage key.
const StorageKey = "techmania2025_registrations"

var ErrDuplicateID = errors.New("registration id already exists")

type RegistrationRepository interface {
	// Load replaces the in-memory store with the persisted contents. A missing
	// key yields an empty store; a malformed value yields an empty store and a
	// non-nil error the caller may log and ignore.
	Load(ctx context.Context) error
	Append(ctx context.Context, reg *models.Registration) error
	All(ctx context.Context) ([]models.Registration, error)
	ReplaceAll(ctx context.Context, regs []models.Registration) error
}

type registrationRepository struct {
	mu    sync.RWMutex
	store storage.Store
	regs  []models.Registration
	ids   map[string]struct{}
}

func NewRegistrationRepository(store storage.Store) RegistrationRepository {
	return &registrationRepository{
		store: store,
		ids:   map[string]struct{}{},
	}
}

func (r *registrationRepository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.regs = nil
	r.ids = map[string]struct{}{}

	data, err := r.store.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load registrations: %w", err)
	}

	var regs []models.Registration
	if err := json.Unmarshal(data, &regs); err != nil {
		return fmt.Errorf("parse registrations: %w", err)
	}

	r.regs = regs
	for _, reg := range regs {
		r.ids[reg.ID] = struct{}{}
	}
	return nil
}

// Append adds the registration to the store and persists the full contents.
// The record stays in memory even when persisting fails; the returned error
// lets the caller decide whether that matters.
func (r *registrationRepository) Append(ctx context.Context, reg *models.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ids[reg.ID]; exists {
		return ErrDuplicateID
	}

	r.regs = append(r.regs, copyRegistration(*reg))
	r.ids[reg.ID] = struct{}{}

	return r.persist(ctx)
}

// All returns a read-only snapshot in insertion order.
func (r *registrationRepository) All(ctx context.Context) ([]models.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Registration, len(r.regs))
	for i, reg := range r.regs {
		out[i] = copyRegistration(reg)
	}
	return out, nil
}

// ReplaceAll discards the current contents. Records are trusted as-is.
func (r *registrationRepository) ReplaceAll(ctx context.Context, regs []models.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.regs = make([]models.Registration, len(regs))
	r.ids = make(map[string]struct{}, len(regs))
	for i, reg := range regs {
		r.regs[i] = copyRegistration(reg)
		r.ids[reg.ID] = struct{}{}
	}

	return r.persist(ctx)
}

func (r *registrationRepository) persist(ctx context.Context) error {
	data, err := json.Marshal(r.regs)
	if err != nil {
		return fmt.Errorf("marshal registrations: %w", err)
	}
	if err := r.store.Put(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("save registrations: %w", err)
	}
	return nil
}

func copyRegistration(reg models.Registration) models.Registration {
	members := make([]string, len(reg.TeamMembers))
	copy(members, reg.TeamMembers)
	reg.TeamMembers = members
	return reg
}
