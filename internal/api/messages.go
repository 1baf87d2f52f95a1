package api

import (
	"github.com/mmynk/seedfund/internal/discovery"
	"github.com/mmynk/seedfund/internal/models"
)

const (
	CampaignServiceName = "seedfund.v1.CampaignService"
	AuthServiceName     = "seedfund.v1.AuthService"
)

// Procedure paths.
const (
	CreateCampaignProcedure = "/" + CampaignServiceName + "/CreateCampaign"
	UpdateCampaignProcedure = "/" + CampaignServiceName + "/UpdateCampaign"
	GetCampaignProcedure    = "/" + CampaignServiceName + "/GetCampaign"
	ListCampaignsProcedure  = "/" + CampaignServiceName + "/ListCampaigns"

	RegisterProcedure       = "/" + AuthServiceName + "/Register"
	LoginProcedure          = "/" + AuthServiceName + "/Login"
	GetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"
)

type CreateCampaignRequest struct {
	Campaign models.CampaignPatch `json:"campaign"`
}

type CreateCampaignResponse struct {
	Campaign *models.Campaign `json:"campaign"`
}

type UpdateCampaignRequest struct {
	CampaignID string               `json:"campaignId"`
	Patch      models.CampaignPatch `json:"patch"`
}

type UpdateCampaignResponse struct {
	Campaign *models.Campaign `json:"campaign"`
}

type GetCampaignRequest struct {
	CampaignID string `json:"campaignId"`
}

type GetCampaignResponse struct {
	Campaign *models.Campaign `json:"campaign"`
}

// ListCampaignsRequest carries the browse filters and the 1-based page.
// A nil Filters lists with discovery.DefaultFilters; omitted fields inside
// Filters keep their defaults.
type ListCampaignsRequest struct {
	Filters *discovery.FilterState `json:"filters,omitempty"`
	Page    int                    `json:"page"`
	// IncludeDrafts also lists campaigns the wizard has not submitted.
	IncludeDrafts bool `json:"includeDrafts,omitempty"`
}

type ListCampaignsResponse struct {
	Campaigns  []*models.Campaign `json:"campaigns"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
	TotalCount int                `json:"totalCount"`
}

// User is the public view of an account.
type User struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	Role        models.Role `json:"role"`
	CreatedAt   int64       `json:"createdAt"`
}

// NewUser converts a stored user to its public view.
func NewUser(u *models.User) *User {
	return &User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}

type RegisterRequest struct {
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	Password    string      `json:"password"`
	Role        models.Role `json:"role"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
