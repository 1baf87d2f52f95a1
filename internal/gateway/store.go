// Package gateway adapts storage to the wizard's persistence contract.
package gateway

import (
	"context"
	"fmt"

	"github.com/mmynk/seedfund/internal/models"
	"github.com/mmynk/seedfund/internal/storage"
	"github.com/mmynk/seedfund/internal/wizard"
)

var _ wizard.Gateway = (*StoreGateway)(nil)

// StoreGateway persists wizard payloads directly into a storage.Store. It is
// used when the wizard runs in the same process as the store.
type StoreGateway struct {
	store     storage.Store
	creatorID string
}

// NewStoreGateway returns a gateway that records creatorID on new campaigns.
func NewStoreGateway(store storage.Store, creatorID string) *StoreGateway {
	return &StoreGateway{store: store, creatorID: creatorID}
}

// Create stores a new campaign built from payload.
func (g *StoreGateway) Create(ctx context.Context, payload models.CampaignPatch) (*models.Campaign, error) {
	if err := payload.Check(); err != nil {
		return nil, fmt.Errorf("invalid campaign: %w", err)
	}
	campaign := models.CampaignFromPatch(payload)
	campaign.CreatorID = g.creatorID
	if err := g.store.CreateCampaign(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// Update merges payload into an existing campaign.
func (g *StoreGateway) Update(ctx context.Context, campaignID string, payload models.CampaignPatch) (*models.Campaign, error) {
	if err := payload.Check(); err != nil {
		return nil, fmt.Errorf("invalid campaign: %w", err)
	}
	return g.store.UpdateCampaign(ctx, campaignID, payload)
}
