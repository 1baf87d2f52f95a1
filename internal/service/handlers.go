package service

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/mmynk/seedfund/internal/api"
	"github.com/mmynk/seedfund/internal/auth"
	"github.com/mmynk/seedfund/internal/middleware"
)

// NewCampaignServiceHandler builds an HTTP handler serving every
// CampaignService procedure. It returns the path to mount it on.
//
// Create and update require a bearer token. Reads accept anonymous callers.
// opts apply to every procedure and run before authentication.
func NewCampaignServiceHandler(svc *CampaignService, jwtManager *auth.JWTManager, opts ...connect.HandlerOption) (string, http.Handler) {
	authed := handlerOptions(opts, middleware.RequireAuth(jwtManager))
	open := handlerOptions(opts, middleware.OptionalAuth(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(api.CreateCampaignProcedure, connect.NewUnaryHandler(api.CreateCampaignProcedure, svc.CreateCampaign, authed...))
	mux.Handle(api.UpdateCampaignProcedure, connect.NewUnaryHandler(api.UpdateCampaignProcedure, svc.UpdateCampaign, authed...))
	mux.Handle(api.GetCampaignProcedure, connect.NewUnaryHandler(api.GetCampaignProcedure, svc.GetCampaign, open...))
	mux.Handle(api.ListCampaignsProcedure, connect.NewUnaryHandler(api.ListCampaignsProcedure, svc.ListCampaigns, open...))
	return "/" + api.CampaignServiceName + "/", mux
}

// NewAuthServiceHandler builds an HTTP handler serving every AuthService
// procedure. Only GetCurrentUser requires a token.
func NewAuthServiceHandler(svc *AuthService, jwtManager *auth.JWTManager, opts ...connect.HandlerOption) (string, http.Handler) {
	authed := handlerOptions(opts, middleware.RequireAuth(jwtManager))
	open := handlerOptions(opts)

	mux := http.NewServeMux()
	mux.Handle(api.RegisterProcedure, connect.NewUnaryHandler(api.RegisterProcedure, svc.Register, open...))
	mux.Handle(api.LoginProcedure, connect.NewUnaryHandler(api.LoginProcedure, svc.Login, open...))
	mux.Handle(api.GetCurrentUserProcedure, connect.NewUnaryHandler(api.GetCurrentUserProcedure, svc.GetCurrentUser, authed...))
	return "/" + api.AuthServiceName + "/", mux
}

func handlerOptions(base []connect.HandlerOption, interceptors ...connect.Interceptor) []connect.HandlerOption {
	opts := make([]connect.HandlerOption, 0, len(base)+2)
	opts = append(opts, connect.WithCodec(api.JSONCodec{}))
	opts = append(opts, base...)
	if len(interceptors) > 0 {
		opts = append(opts, connect.WithInterceptors(interceptors...))
	}
	return opts
}
