package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/seedfund/internal/models"
	"github.com/mmynk/seedfund/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "seedfund-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func solarCampaign() *models.Campaign {
	return &models.Campaign{
		Title:        "Solar Co",
		Description:  "Rooftop panels for rural clinics",
		Category:     models.CategoryEnergy,
		FundingGoal:  500,
		BusinessType: models.BusinessIdea,
		Business:     models.NewBusinessDetails(models.BusinessIdea),
		Milestones: []models.Milestone{
			{Title: "Pilot", Description: "Ten clinics", Amount: 200, Timeline: "Q1"},
			{Title: "Rollout", Description: "Fifty clinics", Amount: 300, Timeline: "Q3", Criteria: "Pilot uptime 99%"},
		},
	}
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateCampaign generates ID, timestamps and status", func(t *testing.T) {
		campaign := solarCampaign()
		if err := store.CreateCampaign(ctx, campaign); err != nil {
			t.Fatalf("CreateCampaign failed: %v", err)
		}

		if campaign.ID == "" {
			t.Error("Expected campaign ID to be generated")
		}
		if campaign.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
		if campaign.Status != models.StatusDraft {
			t.Errorf("Status = %q, want %q", campaign.Status, models.StatusDraft)
		}
		if campaign.Stage != models.StageIdea {
			t.Errorf("Stage = %q, want stage from business details", campaign.Stage)
		}
		for i, m := range campaign.Milestones {
			if m.ID == "" {
				t.Errorf("Expected milestone %d ID to be generated", i)
			}
		}
	})

	t.Run("GetCampaign retrieves complete campaign", func(t *testing.T) {
		original := solarCampaign()
		original.Returns = models.Returns{
			Model:       models.ReturnEquity,
			Percentage:  12.5,
			Projections: []models.Projection{{Year: 1, Amount: 100}, {Year: 2, Amount: 250}},
			Terms:       "Paid annually",
		}
		original.Media = models.Media{CoverImageURL: "https://cdn.example/cover.png", GalleryURLs: []string{"a", "b"}}
		if err := store.CreateCampaign(ctx, original); err != nil {
			t.Fatalf("CreateCampaign failed: %v", err)
		}

		retrieved, err := store.GetCampaign(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetCampaign failed: %v", err)
		}
		if diff := cmp.Diff(original, retrieved); diff != "" {
			t.Errorf("GetCampaign mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("GetCampaign returns ErrNotFound for nonexistent campaign", func(t *testing.T) {
		_, err := store.GetCampaign(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateCampaign merges only patched fields", func(t *testing.T) {
		campaign := solarCampaign()
		if err := store.CreateCampaign(ctx, campaign); err != nil {
			t.Fatalf("CreateCampaign failed: %v", err)
		}

		business := models.NewBusinessDetails(models.BusinessIdea)
		business.Stage = models.StagePrototype
		business.Idea.Problem = "Clinics lose power"
		updated, err := store.UpdateCampaign(ctx, campaign.ID, models.CampaignPatch{
			Business: &business,
		})
		if err != nil {
			t.Fatalf("UpdateCampaign failed: %v", err)
		}

		if updated.Title != "Solar Co" {
			t.Errorf("Title changed to %q", updated.Title)
		}
		if updated.Stage != models.StagePrototype {
			t.Errorf("Stage = %q, want %q", updated.Stage, models.StagePrototype)
		}
		if updated.Business.Idea == nil || updated.Business.Idea.Problem != "Clinics lose power" {
			t.Errorf("Business details not stored: %+v", updated.Business)
		}
		if len(updated.Milestones) != 2 {
			t.Errorf("Milestones count = %d, want 2 (untouched)", len(updated.Milestones))
		}
	})

	t.Run("UpdateCampaign replaces milestones", func(t *testing.T) {
		campaign := solarCampaign()
		if err := store.CreateCampaign(ctx, campaign); err != nil {
			t.Fatalf("CreateCampaign failed: %v", err)
		}

		replacement := []models.Milestone{{Title: "Only", Amount: 500, Timeline: "Q2"}}
		updated, err := store.UpdateCampaign(ctx, campaign.ID, models.CampaignPatch{Milestones: &replacement})
		if err != nil {
			t.Fatalf("UpdateCampaign failed: %v", err)
		}
		if len(updated.Milestones) != 1 || updated.Milestones[0].Title != "Only" {
			t.Errorf("Milestones = %+v, want single replacement", updated.Milestones)
		}
	})

	t.Run("UpdateCampaign returns ErrNotFound for nonexistent campaign", func(t *testing.T) {
		_, err := store.UpdateCampaign(ctx, "nonexistent-id", models.CampaignPatch{Title: models.Ptr("x")})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestListCampaignsInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	titles := []string{"First", "Second", "Third"}
	for _, title := range titles {
		c := solarCampaign()
		c.Title = title
		if err := store.CreateCampaign(ctx, c); err != nil {
			t.Fatalf("CreateCampaign failed: %v", err)
		}
	}

	campaigns, err := store.ListCampaigns(ctx)
	if err != nil {
		t.Fatalf("ListCampaigns failed: %v", err)
	}
	if len(campaigns) != len(titles) {
		t.Fatalf("Expected %d campaigns, got %d", len(titles), len(campaigns))
	}
	for i, c := range campaigns {
		if c.Title != titles[i] {
			t.Errorf("campaigns[%d].Title = %q, want %q", i, c.Title, titles[i])
		}
		if len(c.Milestones) != 2 {
			t.Errorf("campaigns[%d] has %d milestones, want 2", i, len(c.Milestones))
		}
	}
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("ada@example.com", "Ada", models.RoleInvestor, "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID || byEmail.Role != models.RoleInvestor {
		t.Errorf("GetUserByEmail = %+v, want %+v", byEmail, user)
	}

	if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := store.CreateUser(ctx, models.NewUser("ada@example.com", "Other", "", "hash")); err == nil {
		t.Error("Expected duplicate email to fail")
	}
}
