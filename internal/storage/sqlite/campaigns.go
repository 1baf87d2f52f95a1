package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/seedfund/internal/models"
	"github.com/mmynk/seedfund/internal/storage"
)

const campaignColumns = `id, creator_id, title, description, category, funding_goal, amount_raised,
	backers, stage, business_type, business, returns, media, visibility, status, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// CreateCampaign persists a new campaign and its milestones.
func (s *SQLiteStore) CreateCampaign(ctx context.Context, campaign *models.Campaign) error {
	// Generate ID and timestamps if not set
	if campaign.ID == "" {
		campaign.ID = uuid.New().String()
	}
	if campaign.CreatedAt == 0 {
		campaign.CreatedAt = time.Now().Unix()
	}
	campaign.UpdatedAt = campaign.CreatedAt
	if campaign.Status == "" {
		campaign.Status = models.StatusDraft
	}
	if campaign.Stage == "" {
		campaign.Stage = campaign.Business.Stage
	}

	business, returns, media, visibility, err := encodeNested(campaign)
	if err != nil {
		return err
	}

	var creator interface{} = nil
	if campaign.CreatorID != "" {
		creator = campaign.CreatorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO campaigns (`+campaignColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		campaign.ID, creator, campaign.Title, campaign.Description, string(campaign.Category),
		campaign.FundingGoal, campaign.AmountRaised, campaign.Backers, string(campaign.Stage),
		string(campaign.BusinessType), business, returns, media, visibility,
		string(campaign.Status), campaign.CreatedAt, campaign.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert campaign: %w", err)
	}

	if err := insertMilestones(ctx, tx, campaign.ID, campaign.Milestones); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCampaign retrieves a campaign by ID, including its milestones.
func (s *SQLiteStore) GetCampaign(ctx context.Context, campaignID string) (*models.Campaign, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+campaignColumns+" FROM campaigns WHERE id = ?",
		campaignID,
	)
	campaign, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("campaign %s: %w", campaignID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	milestones, err := s.milestonesByCampaign(ctx, "WHERE campaign_id = ?", campaignID)
	if err != nil {
		return nil, err
	}
	campaign.Milestones = milestones[campaign.ID]

	return campaign, nil
}

// ListCampaigns returns every campaign in insertion order.
func (s *SQLiteStore) ListCampaigns(ctx context.Context) ([]*models.Campaign, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+campaignColumns+" FROM campaigns ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaigns: %w", err)
	}

	milestones, err := s.milestonesByCampaign(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, campaign := range campaigns {
		campaign.Milestones = milestones[campaign.ID]
	}

	return campaigns, nil
}

// UpdateCampaign merges patch into the stored campaign. Only the columns the
// patch sets are written; milestones are replaced as a whole when present.
func (s *SQLiteStore) UpdateCampaign(ctx context.Context, campaignID string, patch models.CampaignPatch) (*models.Campaign, error) {
	sets, args, err := patchColumns(patch)
	if err != nil {
		return nil, err
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().Unix(), campaignID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE campaigns SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("campaign %s: %w", campaignID, storage.ErrNotFound)
	}

	if patch.Milestones != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM milestones WHERE campaign_id = ?", campaignID); err != nil {
			return nil, fmt.Errorf("failed to delete milestones: %w", err)
		}
		if err := insertMilestones(ctx, tx, campaignID, *patch.Milestones); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetCampaign(ctx, campaignID)
}

// patchColumns maps the set fields of a patch onto column assignments.
func patchColumns(patch models.CampaignPatch) ([]string, []any, error) {
	var sets []string
	var args []any
	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	addJSON := func(column string, value any) error {
		encoded, err := encodeJSON(value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", column, err)
		}
		add(column, encoded)
		return nil
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Category != nil {
		add("category", string(*patch.Category))
	}
	if patch.FundingGoal != nil {
		add("funding_goal", *patch.FundingGoal)
	}
	if patch.BusinessType != nil {
		add("business_type", string(*patch.BusinessType))
	}
	if patch.Business != nil {
		if err := addJSON("business", *patch.Business); err != nil {
			return nil, nil, err
		}
		if patch.Business.Stage != "" {
			add("stage", string(patch.Business.Stage))
		}
	}
	if patch.Returns != nil {
		if err := addJSON("returns", *patch.Returns); err != nil {
			return nil, nil, err
		}
	}
	if patch.Media != nil {
		if err := addJSON("media", *patch.Media); err != nil {
			return nil, nil, err
		}
	}
	if patch.Visibility != nil {
		if err := addJSON("visibility", *patch.Visibility); err != nil {
			return nil, nil, err
		}
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	return sets, args, nil
}

func encodeNested(c *models.Campaign) (business, returns, media, visibility string, err error) {
	if business, err = encodeJSON(c.Business); err != nil {
		return "", "", "", "", fmt.Errorf("failed to encode business details: %w", err)
	}
	if returns, err = encodeJSON(c.Returns); err != nil {
		return "", "", "", "", fmt.Errorf("failed to encode returns: %w", err)
	}
	if media, err = encodeJSON(c.Media); err != nil {
		return "", "", "", "", fmt.Errorf("failed to encode media: %w", err)
	}
	if visibility, err = encodeJSON(c.Visibility); err != nil {
		return "", "", "", "", fmt.Errorf("failed to encode visibility: %w", err)
	}
	return business, returns, media, visibility, nil
}

func scanCampaign(row rowScanner) (*models.Campaign, error) {
	c := &models.Campaign{}
	var (
		creator                               sql.NullString
		category, stage, businessType, status string
		business, returns, media, visibility  string
	)
	err := row.Scan(&c.ID, &creator, &c.Title, &c.Description, &category, &c.FundingGoal,
		&c.AmountRaised, &c.Backers, &stage, &businessType, &business, &returns, &media,
		&visibility, &status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.CreatorID = creator.String
	c.Category = models.Category(category)
	c.Stage = models.Stage(stage)
	c.BusinessType = models.BusinessType(businessType)
	c.Status = models.CampaignStatus(status)

	if err := decodeJSON(business, &c.Business); err != nil {
		return nil, fmt.Errorf("failed to decode business details: %w", err)
	}
	if err := decodeJSON(returns, &c.Returns); err != nil {
		return nil, fmt.Errorf("failed to decode returns: %w", err)
	}
	if err := decodeJSON(media, &c.Media); err != nil {
		return nil, fmt.Errorf("failed to decode media: %w", err)
	}
	if err := decodeJSON(visibility, &c.Visibility); err != nil {
		return nil, fmt.Errorf("failed to decode visibility: %w", err)
	}
	return c, nil
}

func insertMilestones(ctx context.Context, tx *sql.Tx, campaignID string, milestones []models.Milestone) error {
	for i := range milestones {
		m := &milestones[i]
		if m.ID == "" {
			m.ID = uuid.New().String()
		}

		var criteria interface{} = nil
		if m.Criteria != "" {
			criteria = m.Criteria
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO milestones (id, campaign_id, position, title, description, amount, timeline, criteria)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, campaignID, i, m.Title, m.Description, m.Amount, m.Timeline, criteria,
		)
		if err != nil {
			return fmt.Errorf("failed to insert milestone: %w", err)
		}
	}
	return nil
}

// milestonesByCampaign loads milestones grouped by campaign ID, in position order.
func (s *SQLiteStore) milestonesByCampaign(ctx context.Context, where string, args ...any) (map[string][]models.Milestone, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT campaign_id, id, title, description, amount, timeline, criteria
		 FROM milestones `+where+` ORDER BY campaign_id, position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get milestones: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]models.Milestone)
	for rows.Next() {
		var campaignID string
		var m models.Milestone
		var criteria sql.NullString
		if err := rows.Scan(&campaignID, &m.ID, &m.Title, &m.Description, &m.Amount, &m.Timeline, &criteria); err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		m.Criteria = criteria.String
		grouped[campaignID] = append(grouped[campaignID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate milestones: %w", err)
	}
	return grouped, nil
}
