package models

// Category classifies a campaign for discovery.
type Category string

const (
	CategoryTechnology    Category = "technology"
	CategoryHealthcare    Category = "healthcare"
	CategoryEducation     Category = "education"
	CategoryAgriculture   Category = "agriculture"
	CategoryFinance       Category = "finance"
	CategoryRetail        Category = "retail"
	CategoryManufacturing Category = "manufacturing"
	CategoryEnergy        Category = "energy"
	CategoryOther         Category = "other"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryTechnology,
	CategoryHealthcare,
	CategoryEducation,
	CategoryAgriculture,
	CategoryFinance,
	CategoryRetail,
	CategoryManufacturing,
	CategoryEnergy,
	CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Stage is the funding stage a campaign reports.
type Stage string

const (
	StageIdea         Stage = "idea"
	StagePrototype    Stage = "prototype"
	StageEarlyRevenue Stage = "early-revenue"
	StageGrowth       Stage = "growth"
)

// Stages lists every known stage in display order.
var Stages = []Stage{StageIdea, StagePrototype, StageEarlyRevenue, StageGrowth}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	for _, known := range Stages {
		if s == known {
			return true
		}
	}
	return false
}

// CampaignStatus tracks whether the wizard has finished with a campaign.
type CampaignStatus string

const (
	StatusDraft     CampaignStatus = "draft"
	StatusSubmitted CampaignStatus = "submitted"
)

// Campaign is a funding request published by an entrepreneur.
type Campaign struct {
	// ID is the server-assigned identifier (UUID format).
	ID string `json:"id"`

	// CreatorID is the user who created the campaign.
	CreatorID string `json:"creatorId,omitempty"`

	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`

	// FundingGoal is the amount requested. Expected to be positive.
	FundingGoal int64 `json:"fundingGoal"`

	// AmountRaised may exceed FundingGoal; that is a display concern.
	AmountRaised int64 `json:"amountRaised"`

	Backers int   `json:"backers"`
	Stage   Stage `json:"stage"`

	BusinessType BusinessType    `json:"businessType"`
	Business     BusinessDetails `json:"business"`
	Milestones   []Milestone     `json:"milestones,omitempty"`
	Returns      Returns         `json:"returns"`
	Media        Media           `json:"media"`
	Visibility   Visibility      `json:"visibility"`

	Status CampaignStatus `json:"status"`

	// CreatedAt is the Unix timestamp when the campaign was created.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix timestamp of the last partial update.
	UpdatedAt int64 `json:"updatedAt"`
}

// Milestone is a funded deliverable. Amounts are expected, not enforced, to
// sum to at most the funding goal.
type Milestone struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title" validate:"required"`
	Description string `json:"description" yaml:"description"`
	Amount      int64  `json:"amount" yaml:"amount" validate:"gt=0"`
	Timeline    string `json:"timeline" yaml:"timeline" validate:"required"`
	Criteria    string `json:"criteria,omitempty" yaml:"criteria"`
}

// ReturnModel describes how investors are paid back.
type ReturnModel string

const (
	ReturnProfitSharing  ReturnModel = "profit-sharing"
	ReturnEquity         ReturnModel = "equity"
	ReturnRevenueSharing ReturnModel = "revenue-sharing"
)

// Projection is one year of projected returns.
type Projection struct {
	Year   int   `json:"year" yaml:"year"`
	Amount int64 `json:"amount" yaml:"amount"`
}

// Returns is the investor returns offer.
type Returns struct {
	Model       ReturnModel  `json:"model" yaml:"model" validate:"required,oneof=profit-sharing equity revenue-sharing"`
	Percentage  float64      `json:"percentage" yaml:"percentage" validate:"gt=0,lte=100"`
	Projections []Projection `json:"projections,omitempty" yaml:"projections"`
	Terms       string       `json:"terms" yaml:"terms" validate:"required"`
}

// Media holds references to externally stored assets. The URLs are opaque.
type Media struct {
	CoverImageURL string   `json:"coverImageUrl" yaml:"coverImage" validate:"required"`
	GalleryURLs   []string `json:"galleryUrls,omitempty" yaml:"gallery"`
	PitchVideoURL string   `json:"pitchVideoUrl,omitempty" yaml:"pitchVideo"`
	DocumentURLs  []string `json:"documentUrls,omitempty" yaml:"documents"`
}

// Visibility controls who can see and contact a campaign.
type Visibility struct {
	Public          bool `json:"public" yaml:"public"`
	InvestorsOnly   bool `json:"investorsOnly" yaml:"investorsOnly"`
	AllowMessages   bool `json:"allowMessages" yaml:"allowMessages"`
	FeaturedRequest bool `json:"featuredRequest" yaml:"featuredRequest"`
}
