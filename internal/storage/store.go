// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/seedfund/internal/models"
)

// ErrNotFound is returned (wrapped) when a record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for campaign and user storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateCampaign persists a new campaign.
	// The campaign.ID, CreatedAt and UpdatedAt fields are populated by the store.
	CreateCampaign(ctx context.Context, campaign *models.Campaign) error

	// GetCampaign retrieves a campaign by its ID.
	// Returns an error wrapping ErrNotFound if the campaign does not exist.
	GetCampaign(ctx context.Context, campaignID string) (*models.Campaign, error)

	// UpdateCampaign merges the set fields of patch into an existing campaign
	// and returns the stored result.
	// Returns an error wrapping ErrNotFound if the campaign does not exist.
	UpdateCampaign(ctx context.Context, campaignID string, patch models.CampaignPatch) (*models.Campaign, error)

	// ListCampaigns returns every campaign in insertion order.
	ListCampaigns(ctx context.Context) ([]*models.Campaign, error)

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
