// Package client talks to the seedfund Connect services.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"connectrpc.com/connect"
	"github.com/mmynk/seedfund/internal/api"
	"github.com/mmynk/seedfund/internal/discovery"
	"github.com/mmynk/seedfund/internal/models"
	"github.com/mmynk/seedfund/internal/storage"
	"github.com/mmynk/seedfund/internal/wizard"
)

var _ wizard.Gateway = (*Client)(nil)

// Client calls the campaign and auth services. It is safe for concurrent use.
type Client struct {
	createCampaign *connect.Client[api.CreateCampaignRequest, api.CreateCampaignResponse]
	updateCampaign *connect.Client[api.UpdateCampaignRequest, api.UpdateCampaignResponse]
	getCampaign    *connect.Client[api.GetCampaignRequest, api.GetCampaignResponse]
	listCampaigns  *connect.Client[api.ListCampaignsRequest, api.ListCampaignsResponse]
	register       *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login          *connect.Client[api.LoginRequest, api.LoginResponse]
	currentUser    *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]

	mu    sync.RWMutex
	token string
}

// New returns a client for the server at baseURL. A nil httpClient uses
// http.DefaultClient.
func New(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimRight(baseURL, "/")

	c := &Client{}
	opts = append([]connect.ClientOption{
		connect.WithCodec(api.JSONCodec{}),
		connect.WithInterceptors(c.bearer()),
	}, opts...)

	c.createCampaign = connect.NewClient[api.CreateCampaignRequest, api.CreateCampaignResponse](httpClient, baseURL+api.CreateCampaignProcedure, opts...)
	c.updateCampaign = connect.NewClient[api.UpdateCampaignRequest, api.UpdateCampaignResponse](httpClient, baseURL+api.UpdateCampaignProcedure, opts...)
	c.getCampaign = connect.NewClient[api.GetCampaignRequest, api.GetCampaignResponse](httpClient, baseURL+api.GetCampaignProcedure, opts...)
	c.listCampaigns = connect.NewClient[api.ListCampaignsRequest, api.ListCampaignsResponse](httpClient, baseURL+api.ListCampaignsProcedure, opts...)
	c.register = connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL+api.RegisterProcedure, opts...)
	c.login = connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+api.LoginProcedure, opts...)
	c.currentUser = connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+api.GetCurrentUserProcedure, opts...)
	return c
}

// SetToken sets the bearer token sent with every call.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) bearer() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token := c.Token(); token != "" && req.Spec().IsClient {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			return next(ctx, req)
		}
	}
}

// Create creates a campaign from payload.
func (c *Client) Create(ctx context.Context, payload models.CampaignPatch) (*models.Campaign, error) {
	resp, err := c.createCampaign.CallUnary(ctx, connect.NewRequest(&api.CreateCampaignRequest{Campaign: payload}))
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Msg.Campaign, nil
}

// Update merges payload into the campaign with the given id.
func (c *Client) Update(ctx context.Context, campaignID string, payload models.CampaignPatch) (*models.Campaign, error) {
	resp, err := c.updateCampaign.CallUnary(ctx, connect.NewRequest(&api.UpdateCampaignRequest{
		CampaignID: campaignID,
		Patch:      payload,
	}))
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Msg.Campaign, nil
}

// GetCampaign fetches one campaign. A missing campaign wraps storage.ErrNotFound.
func (c *Client) GetCampaign(ctx context.Context, campaignID string) (*models.Campaign, error) {
	resp, err := c.getCampaign.CallUnary(ctx, connect.NewRequest(&api.GetCampaignRequest{CampaignID: campaignID}))
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Msg.Campaign, nil
}

// ListCampaigns fetches one page of campaigns matching filters.
func (c *Client) ListCampaigns(ctx context.Context, filters discovery.FilterState, page int, includeDrafts bool) (*api.ListCampaignsResponse, error) {
	resp, err := c.listCampaigns.CallUnary(ctx, connect.NewRequest(&api.ListCampaignsRequest{
		Filters:       &filters,
		Page:          page,
		IncludeDrafts: includeDrafts,
	}))
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Msg, nil
}

// Register creates an account and keeps the returned token.
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.User, error) {
	resp, err := c.register.CallUnary(ctx, connect.NewRequest(&req))
	if err != nil {
		return nil, mapError(err)
	}
	c.SetToken(resp.Msg.Token)
	return resp.Msg.User, nil
}

// Login authenticates and keeps the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*api.User, error) {
	resp, err := c.login.CallUnary(ctx, connect.NewRequest(&api.LoginRequest{Email: email, Password: password}))
	if err != nil {
		return nil, mapError(err)
	}
	c.SetToken(resp.Msg.Token)
	return resp.Msg.User, nil
}

// CurrentUser returns the account the token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*api.User, error) {
	resp, err := c.currentUser.CallUnary(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Msg.User, nil
}

// mapError keeps the connect error while letting callers match
// storage.ErrNotFound.
func mapError(err error) error {
	if connect.CodeOf(err) == connect.CodeNotFound {
		return fmt.Errorf("%w: %w", storage.ErrNotFound, err)
	}
	return err
}
