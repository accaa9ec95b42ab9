// Package profile manages user profiles and the onboarding exchange that
// creates them.
package profile

import (
	"context"
	"sync"

	"pulsebot/internal/core"
	"pulsebot/internal/logger"
	"pulsebot/internal/store"
)

// Deriver turns onboarding free text into a structured profile.
type Deriver interface {
	DeriveProfile(ctx context.Context, description string) core.UserProfile
}

// Manager tracks which users are mid-onboarding and persists derived
// profiles. Profiles are replaced wholesale on every update, never merged.
type Manager struct {
	store   store.UserState
	deriver Deriver

	mu       sync.Mutex
	awaiting map[string]bool // users prompted for a self-description
}

// NewManager creates a profile manager.
func NewManager(userState store.UserState, deriver Deriver) *Manager {
	return &Manager{
		store:    userState,
		deriver:  deriver,
		awaiting: make(map[string]bool),
	}
}

// Get returns the user's profile, if one exists.
func (m *Manager) Get(userID string) (core.UserProfile, bool) {
	return m.store.Profile(userID)
}

// NeedsOnboarding reports whether the user has no profile yet.
func (m *Manager) NeedsOnboarding(userID string) bool {
	_, ok := m.store.Profile(userID)
	return !ok
}

// BeginOnboarding marks the user as prompted; their next message is treated
// as a self-description.
func (m *Manager) BeginOnboarding(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.awaiting[userID] = true
}

// AwaitingDescription reports whether the user's next message completes
// onboarding.
func (m *Manager) AwaitingDescription(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.awaiting[userID]
}

// CompleteOnboarding derives and saves a profile from the user's
// self-description and clears the onboarding state.
func (m *Manager) CompleteOnboarding(ctx context.Context, userID, description string) core.UserProfile {
	profile := m.deriver.DeriveProfile(ctx, description)
	m.store.SaveProfile(userID, profile)

	m.mu.Lock()
	delete(m.awaiting, userID)
	m.mu.Unlock()

	logger.Info("Onboarding completed", "user_id", userID, "primary_role", string(profile.PrimaryRole))
	return profile
}

// Update re-derives the profile from a fresh description and replaces the
// stored one wholesale.
func (m *Manager) Update(ctx context.Context, userID, description string) core.UserProfile {
	profile := m.deriver.DeriveProfile(ctx, description)
	m.store.SaveProfile(userID, profile)
	logger.Info("Profile updated", "user_id", userID, "primary_role", string(profile.PrimaryRole))
	return profile
}

// Reset removes the user's profile and any onboarding state.
func (m *Manager) Reset(userID string) {
	m.store.DeleteProfile(userID)
	m.mu.Lock()
	delete(m.awaiting, userID)
	m.mu.Unlock()
}
