package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/seedfund/internal/api"
	"github.com/mmynk/seedfund/internal/auth"
	"github.com/mmynk/seedfund/internal/client"
	"github.com/mmynk/seedfund/internal/discovery"
	"github.com/mmynk/seedfund/internal/models"
	"github.com/mmynk/seedfund/internal/storage"
	"github.com/mmynk/seedfund/internal/storage/sqlite"
)

type testServer struct {
	url   string
	store *sqlite.SQLiteStore
}

// setupTestServer serves both services from a temp SQLite database.
func setupTestServer(t *testing.T, opts ...CampaignOption) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.DiscardHandler)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	campaignPath, campaignHandler := NewCampaignServiceHandler(NewCampaignService(store, logger, opts...), jwtManager)
	authPath, authHandler := NewAuthServiceHandler(
		NewAuthService(auth.NewPasswordAuthenticator(store), store, jwtManager, logger),
		jwtManager,
	)

	mux := http.NewServeMux()
	mux.Handle(campaignPath, campaignHandler)
	mux.Handle(authPath, authHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{url: server.URL, store: store}
}

func (s *testServer) anonymous() *client.Client {
	return client.New(http.DefaultClient, s.url)
}

func (s *testServer) signUp(t *testing.T, name string, role models.Role) (*client.Client, *api.User) {
	t.Helper()
	c := s.anonymous()
	user, err := c.Register(context.Background(), api.RegisterRequest{
		Email:       name + "@example.com",
		DisplayName: name,
		Password:    "password123",
		Role:        role,
	})
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", name, err)
	}
	return c, user
}

func publicCampaign(title string, category models.Category, goal int64) *models.Campaign {
	return &models.Campaign{
		Title:       title,
		Category:    category,
		FundingGoal: goal,
		Business:    models.NewBusinessDetails(models.BusinessIdea),
		Status:      models.StatusSubmitted,
		Visibility:  models.Visibility{Public: true},
	}
}

func TestCreateCampaignRequiresAuth(t *testing.T) {
	srv := setupTestServer(t)

	_, err := srv.anonymous().Create(context.Background(), models.CampaignPatch{Title: models.Ptr("Anon")})
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestCampaignLifecycle(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	alice, aliceUser := srv.signUp(t, "alice", models.RoleEntrepreneur)

	created, err := alice.Create(ctx, models.CampaignPatch{
		Title:       models.Ptr("Solar Co"),
		Category:    models.Ptr(models.CategoryEnergy),
		FundingGoal: models.Ptr(int64(500)),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" || created.CreatorID != aliceUser.ID || created.Status != models.StatusDraft {
		t.Fatalf("unexpected created campaign: %+v", created)
	}

	updated, err := alice.Update(ctx, created.ID, models.CampaignPatch{
		Media: &models.Media{CoverImageURL: "https://img/solar.png"},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "Solar Co" || updated.Media.CoverImageURL != "https://img/solar.png" {
		t.Errorf("update did not merge: %+v", updated)
	}

	got, err := alice.GetCampaign(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetCampaign failed: %v", err)
	}
	if got.Media.CoverImageURL != "https://img/solar.png" {
		t.Errorf("GetCampaign returned stale media: %+v", got.Media)
	}

	t.Run("draft unreadable by others", func(t *testing.T) {
		_, err := srv.anonymous().GetCampaign(ctx, created.ID)
		if !errors.Is(err, storage.ErrNotFound) || connect.CodeOf(err) != connect.CodeNotFound {
			t.Errorf("expected NotFound for anonymous read of draft, got %v", err)
		}
	})

	t.Run("drafts hidden from others", func(t *testing.T) {
		resp, err := srv.anonymous().ListCampaigns(ctx, discovery.DefaultFilters(), 1, true)
		if err != nil {
			t.Fatalf("ListCampaigns failed: %v", err)
		}
		if resp.TotalCount != 0 {
			t.Errorf("expected no visible campaigns, got %d", resp.TotalCount)
		}
	})

	t.Run("creator sees own drafts on request", func(t *testing.T) {
		resp, err := alice.ListCampaigns(ctx, discovery.DefaultFilters(), 1, true)
		if err != nil {
			t.Fatalf("ListCampaigns failed: %v", err)
		}
		if resp.TotalCount != 1 || resp.Campaigns[0].ID != created.ID {
			t.Errorf("expected own draft, got %+v", resp)
		}
	})
}

func TestUpdateCampaignCreatorOnly(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	alice, _ := srv.signUp(t, "alice", models.RoleEntrepreneur)
	bob, _ := srv.signUp(t, "bob", models.RoleEntrepreneur)

	created, err := alice.Create(ctx, models.CampaignPatch{Title: models.Ptr("Bakery")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = bob.Update(ctx, created.ID, models.CampaignPatch{Title: models.Ptr("Mine now")})
	if connect.CodeOf(err) != connect.CodePermissionDenied {
		t.Fatalf("expected PermissionDenied, got %v", err)
	}

	_, err = alice.Update(ctx, "missing", models.CampaignPatch{Title: models.Ptr("x")})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateCampaignRejectsInvalidPayload(t *testing.T) {
	srv := setupTestServer(t)
	alice, _ := srv.signUp(t, "alice", models.RoleEntrepreneur)

	tests := []struct {
		name  string
		patch models.CampaignPatch
	}{
		{"unknown category", models.CampaignPatch{Category: models.Ptr(models.Category("space"))}},
		{"negative goal", models.CampaignPatch{FundingGoal: models.Ptr(int64(-1))}},
		{"mismatched business", models.CampaignPatch{Business: &models.BusinessDetails{
			Type:    models.BusinessIdea,
			Started: &models.StartedDetails{TeamSize: 2},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := alice.Create(context.Background(), tt.patch)
			if connect.CodeOf(err) != connect.CodeInvalidArgument {
				t.Errorf("expected InvalidArgument, got %v", err)
			}
		})
	}
}

func TestGetCampaignNotFound(t *testing.T) {
	srv := setupTestServer(t)

	_, err := srv.anonymous().GetCampaign(context.Background(), "nope")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected storage.ErrNotFound, got %v", err)
	}
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected CodeNotFound, got %v", connect.CodeOf(err))
	}
}

func TestListCampaignsFiltersAndPages(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	for i := range 20 {
		c := publicCampaign(fmt.Sprintf("Tech %02d", i), models.CategoryTechnology, int64(100+i))
		c.CreatedAt = int64(1000 + i)
		if err := srv.store.CreateCampaign(ctx, c); err != nil {
			t.Fatalf("CreateCampaign failed: %v", err)
		}
	}
	farm := publicCampaign("Farm", models.CategoryAgriculture, 50)
	if err := srv.store.CreateCampaign(ctx, farm); err != nil {
		t.Fatalf("CreateCampaign failed: %v", err)
	}

	anon := srv.anonymous()
	tech := discovery.DefaultFilters().ToggleCategory(models.CategoryTechnology)

	resp, err := anon.ListCampaigns(ctx, tech, 3, false)
	if err != nil {
		t.Fatalf("ListCampaigns failed: %v", err)
	}
	if resp.TotalPages != 3 || resp.TotalCount != 20 || len(resp.Campaigns) != 2 {
		t.Fatalf("page 3: got pages=%d count=%d items=%d", resp.TotalPages, resp.TotalCount, len(resp.Campaigns))
	}
	// Newest first, so the last page holds the two oldest.
	if resp.Campaigns[0].Title != "Tech 01" || resp.Campaigns[1].Title != "Tech 00" {
		t.Errorf("unexpected last page: %s, %s", resp.Campaigns[0].Title, resp.Campaigns[1].Title)
	}

	resp, err = anon.ListCampaigns(ctx, discovery.DefaultFilters().SetSearch("FARM"), 0, false)
	if err != nil {
		t.Fatalf("ListCampaigns failed: %v", err)
	}
	if resp.Page != 1 || resp.TotalCount != 1 || resp.Campaigns[0].ID != farm.ID {
		t.Errorf("search: got %+v", resp)
	}
}

func TestListCampaignsPageSizeOption(t *testing.T) {
	srv := setupTestServer(t, WithPageSize(4))
	ctx := context.Background()
	for i := range 10 {
		if err := srv.store.CreateCampaign(ctx, publicCampaign(fmt.Sprint(i), models.CategoryOther, 10)); err != nil {
			t.Fatalf("CreateCampaign failed: %v", err)
		}
	}

	resp, err := srv.anonymous().ListCampaigns(ctx, discovery.DefaultFilters(), 1, false)
	if err != nil {
		t.Fatalf("ListCampaigns failed: %v", err)
	}
	if len(resp.Campaigns) != 4 || resp.TotalPages != 3 {
		t.Errorf("got %d items over %d pages, want 4 over 3", len(resp.Campaigns), resp.TotalPages)
	}
}

func TestInvestorsOnlyCampaigns(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	c := publicCampaign("Seed round", models.CategoryFinance, 1000)
	c.Visibility.InvestorsOnly = true
	if err := srv.store.CreateCampaign(ctx, c); err != nil {
		t.Fatalf("CreateCampaign failed: %v", err)
	}

	entrepreneur, _ := srv.signUp(t, "erin", models.RoleEntrepreneur)
	investor, _ := srv.signUp(t, "ivan", models.RoleInvestor)

	tests := []struct {
		name   string
		client *client.Client
		want   int
	}{
		{"anonymous", srv.anonymous(), 0},
		{"entrepreneur", entrepreneur, 0},
		{"investor", investor, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.client.ListCampaigns(ctx, discovery.DefaultFilters(), 1, false)
			if err != nil {
				t.Fatalf("ListCampaigns failed: %v", err)
			}
			if resp.TotalCount != tt.want {
				t.Errorf("got %d campaigns, want %d", resp.TotalCount, tt.want)
			}
		})
	}
}

func TestGetCampaignVisibility(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	open := publicCampaign("Open", models.CategoryRetail, 100)
	investorsOnly := publicCampaign("Seed round", models.CategoryFinance, 1000)
	investorsOnly.Visibility.InvestorsOnly = true
	private := publicCampaign("Private", models.CategoryOther, 100)
	private.Visibility.Public = false
	for _, c := range []*models.Campaign{open, investorsOnly, private} {
		if err := srv.store.CreateCampaign(ctx, c); err != nil {
			t.Fatalf("CreateCampaign failed: %v", err)
		}
	}

	entrepreneur, _ := srv.signUp(t, "erin", models.RoleEntrepreneur)
	investor, _ := srv.signUp(t, "ivan", models.RoleInvestor)

	tests := []struct {
		name     string
		client   *client.Client
		campaign *models.Campaign
		visible  bool
	}{
		{"anonymous open", srv.anonymous(), open, true},
		{"anonymous investors only", srv.anonymous(), investorsOnly, false},
		{"entrepreneur investors only", entrepreneur, investorsOnly, false},
		{"investor investors only", investor, investorsOnly, true},
		{"anonymous private", srv.anonymous(), private, false},
		{"investor private", investor, private, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.client.GetCampaign(ctx, tt.campaign.ID)
			if tt.visible {
				if err != nil || got.ID != tt.campaign.ID {
					t.Errorf("expected campaign, got %v, %v", got, err)
				}
				return
			}
			if connect.CodeOf(err) != connect.CodeNotFound {
				t.Errorf("expected NotFound, got %v", err)
			}
		})
	}
}

// Partial filters over the wire keep the default funding range and sort.
func TestListCampaignsPartialFilters(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	funded := publicCampaign("Solar farm", models.CategoryEnergy, 500)
	funded.AmountRaised = 300
	if err := srv.store.CreateCampaign(ctx, funded); err != nil {
		t.Fatalf("CreateCampaign failed: %v", err)
	}

	body := strings.NewReader(`{"filters":{"search":"solar"},"page":1}`)
	resp, err := http.Post(srv.url+api.ListCampaignsProcedure, "application/json", body)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out api.ListCampaignsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.TotalCount != 1 || out.Campaigns[0].AmountRaised != 300 {
		t.Errorf("expected the funded campaign, got %+v", out)
	}
}

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	hits    int
	deletes int
}

func (m *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if ok {
		m.hits++
	}
	return v, ok, nil
}

func (m *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deletes++
	return nil
}

func TestGetCampaignReadsThroughCache(t *testing.T) {
	mc := &memCache{data: map[string][]byte{}}
	srv := setupTestServer(t, WithCache(mc, time.Minute))
	ctx := context.Background()
	alice, _ := srv.signUp(t, "alice", models.RoleEntrepreneur)

	created, err := alice.Create(ctx, models.CampaignPatch{Title: models.Ptr("Cached")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for range 2 {
		if _, err := alice.GetCampaign(ctx, created.ID); err != nil {
			t.Fatalf("GetCampaign failed: %v", err)
		}
	}
	if mc.hits != 1 {
		t.Errorf("expected 1 cache hit, got %d", mc.hits)
	}

	if _, err := alice.Update(ctx, created.ID, models.CampaignPatch{Title: models.Ptr("Fresh")}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if mc.deletes != 1 {
		t.Errorf("expected update to invalidate, got %d deletes", mc.deletes)
	}

	got, err := alice.GetCampaign(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetCampaign failed: %v", err)
	}
	if got.Title != "Fresh" {
		t.Errorf("expected fresh title after invalidation, got %q", got.Title)
	}
}

func TestAuthService(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	_, alice := srv.signUp(t, "alice", models.RoleInvestor)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := srv.anonymous().Register(ctx, api.RegisterRequest{
			Email: "alice@example.com", DisplayName: "Alice", Password: "password123",
		})
		if connect.CodeOf(err) != connect.CodeAlreadyExists {
			t.Errorf("expected AlreadyExists, got %v", err)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := srv.anonymous().Register(ctx, api.RegisterRequest{
			Email: "weak@example.com", DisplayName: "Weak", Password: "short",
		})
		if connect.CodeOf(err) != connect.CodeInvalidArgument {
			t.Errorf("expected InvalidArgument, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := srv.anonymous().Login(ctx, "alice@example.com", "wrong-password")
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("expected Unauthenticated, got %v", err)
		}
	})

	t.Run("login then current user", func(t *testing.T) {
		c := srv.anonymous()
		if _, err := c.Login(ctx, "alice@example.com", "password123"); err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		me, err := c.CurrentUser(ctx)
		if err != nil {
			t.Fatalf("CurrentUser failed: %v", err)
		}
		if me.ID != alice.ID || me.Role != models.RoleInvestor || me.DisplayName != "alice" {
			t.Errorf("unexpected user: %+v", me)
		}
	})

	t.Run("current user without token", func(t *testing.T) {
		_, err := srv.anonymous().CurrentUser(ctx)
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("expected Unauthenticated, got %v", err)
		}
	})
}
