package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/mmynk/seedfund/internal/api"
	"github.com/mmynk/seedfund/internal/cache"
	"github.com/mmynk/seedfund/internal/discovery"
	"github.com/mmynk/seedfund/internal/middleware"
	"github.com/mmynk/seedfund/internal/models"
	"github.com/mmynk/seedfund/internal/storage"
)

// CampaignService implements the CampaignService RPC interface.
type CampaignService struct {
	store    storage.Store
	cache    cache.Cache
	cacheTTL time.Duration
	pageSize int
	logger   *slog.Logger
}

// CampaignOption configures a CampaignService.
type CampaignOption func(*CampaignService)

// WithCache enables read-through caching of GetCampaign.
func WithCache(c cache.Cache, ttl time.Duration) CampaignOption {
	return func(s *CampaignService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithPageSize overrides discovery.PageSize for ListCampaigns.
func WithPageSize(n int) CampaignOption {
	return func(s *CampaignService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// NewCampaignService creates a new CampaignService with the given storage backend.
func NewCampaignService(store storage.Store, logger *slog.Logger, opts ...CampaignOption) *CampaignService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &CampaignService{
		store:    store,
		cache:    cache.NewNoop(),
		pageSize: discovery.PageSize,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCampaign stores a new campaign owned by the caller.
func (s *CampaignService) CreateCampaign(ctx context.Context, req *connect.Request[api.CreateCampaignRequest]) (*connect.Response[api.CreateCampaignResponse], error) {
	userID := middleware.GetUserID(ctx)
	s.logger.Info("CreateCampaign request received", "user_id", userID)

	if err := req.Msg.Campaign.Check(); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	campaign := models.CampaignFromPatch(req.Msg.Campaign)
	campaign.CreatorID = userID
	if err := s.store.CreateCampaign(ctx, campaign); err != nil {
		s.logger.Error("CreateCampaign failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Campaign created", "campaign_id", campaign.ID, "status", campaign.Status)
	return connect.NewResponse(&api.CreateCampaignResponse{Campaign: campaign}), nil
}

// UpdateCampaign merges a partial payload into a campaign the caller created.
func (s *CampaignService) UpdateCampaign(ctx context.Context, req *connect.Request[api.UpdateCampaignRequest]) (*connect.Response[api.UpdateCampaignResponse], error) {
	userID := middleware.GetUserID(ctx)
	campaignID := req.Msg.CampaignID
	s.logger.Info("UpdateCampaign request received", "campaign_id", campaignID, "user_id", userID)

	if campaignID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("campaign id is required"))
	}
	if err := req.Msg.Patch.Check(); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	existing, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		s.logger.Warn("UpdateCampaign lookup failed", "campaign_id", campaignID, "error", err)
		return nil, storeError(err)
	}
	if existing.CreatorID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errors.New("only the creator can edit a campaign"))
	}

	campaign, err := s.store.UpdateCampaign(ctx, campaignID, req.Msg.Patch)
	if err != nil {
		s.logger.Error("UpdateCampaign failed", "campaign_id", campaignID, "error", err)
		return nil, storeError(err)
	}
	if err := s.cache.Delete(ctx, cache.CampaignKey(campaignID)); err != nil {
		s.logger.Warn("Failed to invalidate cached campaign", "campaign_id", campaignID, "error", err)
	}

	s.logger.Info("Campaign updated", "campaign_id", campaignID)
	return connect.NewResponse(&api.UpdateCampaignResponse{Campaign: campaign}), nil
}

// GetCampaign returns one campaign, reading through the cache.
func (s *CampaignService) GetCampaign(ctx context.Context, req *connect.Request[api.GetCampaignRequest]) (*connect.Response[api.GetCampaignResponse], error) {
	campaignID := req.Msg.CampaignID
	s.logger.Info("GetCampaign request received", "campaign_id", campaignID)

	campaign, ok := s.cached(ctx, campaignID)
	if !ok {
		var err error
		campaign, err = s.store.GetCampaign(ctx, campaignID)
		if err != nil {
			s.logger.Warn("GetCampaign failed", "campaign_id", campaignID, "error", err)
			return nil, storeError(err)
		}
		s.remember(ctx, campaign)
	}

	// Hidden campaigns read as missing so their ids are not confirmed.
	v := viewerFrom(ctx, true)
	if !v.canSee(campaign) {
		s.logger.Info("GetCampaign hidden from caller", "campaign_id", campaignID, "user_id", v.userID)
		return nil, connect.NewError(connect.CodeNotFound, storage.ErrNotFound)
	}

	return connect.NewResponse(&api.GetCampaignResponse{Campaign: campaign}), nil
}

// ListCampaigns filters, sorts and pages the campaigns visible to the caller.
func (s *CampaignService) ListCampaigns(ctx context.Context, req *connect.Request[api.ListCampaignsRequest]) (*connect.Response[api.ListCampaignsResponse], error) {
	filters := discovery.DefaultFilters()
	if req.Msg.Filters != nil {
		filters = *req.Msg.Filters
	}
	page := max(req.Msg.Page, 1)
	s.logger.Info("ListCampaigns request received",
		"search", filters.Search,
		"sort_by", filters.SortBy,
		"page", page,
	)

	all, err := s.store.ListCampaigns(ctx)
	if err != nil {
		s.logger.Error("ListCampaigns failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	v := viewerFrom(ctx, req.Msg.IncludeDrafts)
	visible := make([]*models.Campaign, 0, len(all))
	for _, c := range all {
		if v.canSee(c) {
			visible = append(visible, c)
		}
	}

	matched := discovery.Apply(visible, filters)
	pageItems, totalPages := discovery.Paginate(matched, page, s.pageSize)

	s.logger.Info("ListCampaigns successful", "matched", len(matched), "total_pages", totalPages)
	return connect.NewResponse(&api.ListCampaignsResponse{
		Campaigns:  pageItems,
		Page:       page,
		TotalPages: totalPages,
		TotalCount: len(matched),
	}), nil
}

func (s *CampaignService) cached(ctx context.Context, campaignID string) (*models.Campaign, bool) {
	data, ok, err := s.cache.Get(ctx, cache.CampaignKey(campaignID))
	if err != nil {
		s.logger.Warn("Cache read failed", "campaign_id", campaignID, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var campaign models.Campaign
	if err := json.Unmarshal(data, &campaign); err != nil {
		s.logger.Warn("Discarding corrupt cache entry", "campaign_id", campaignID, "error", err)
		return nil, false
	}
	return &campaign, true
}

func (s *CampaignService) remember(ctx context.Context, campaign *models.Campaign) {
	data, err := json.Marshal(campaign)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.CampaignKey(campaign.ID), data, s.cacheTTL); err != nil {
		s.logger.Warn("Cache write failed", "campaign_id", campaign.ID, "error", err)
	}
}

// viewer decides which campaigns a caller may read.
type viewer struct {
	userID        string
	role          models.Role
	includeDrafts bool
}

func viewerFrom(ctx context.Context, includeDrafts bool) viewer {
	return viewer{
		userID:        middleware.GetUserID(ctx),
		role:          middleware.GetRole(ctx),
		includeDrafts: includeDrafts,
	}
}

func (v viewer) canSee(c *models.Campaign) bool {
	own := v.userID != "" && c.CreatorID == v.userID
	if own {
		return c.Status == models.StatusSubmitted || v.includeDrafts
	}
	if c.Status != models.StatusSubmitted || !c.Visibility.Public {
		return false
	}
	if c.Visibility.InvestorsOnly {
		return v.role == models.RoleInvestor
	}
	return true
}

func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
