package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quillpress/quillpress-server/internal/domain"
	"github.com/quillpress/quillpress-server/internal/service"
)

func (s *Server) registerAdSenseRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adsense.getConfig",
		Method:      http.MethodGet,
		Path:        "/api/v1/adsense/config",
		Summary:     "Get AdSense config",
		Description: "Returns the full config, or null when none is stored. Super admin only.",
		Tags:        []string{"AdSense"},
		Security:    bearerSecurity,
	}, s.handleGetAdSenseConfig)

	huma.Register(s.api, huma.Operation{
		OperationID: "adsense.updateConfig",
		Method:      http.MethodPut,
		Path:        "/api/v1/adsense/config",
		Summary:     "Update AdSense config",
		Description: "Creates or replaces the singleton config. Super admin only.",
		Tags:        []string{"AdSense"},
		Security:    bearerSecurity,
	}, s.handleUpdateAdSenseConfig)

	huma.Register(s.api, huma.Operation{
		OperationID: "adsense.getPublicConfig",
		Method:      http.MethodGet,
		Path:        "/api/v1/adsense/public",
		Summary:     "Get public AdSense config",
		Description: "Returns the ad slots and enabled flag, or null when nothing is configured",
		Tags:        []string{"AdSense"},
	}, s.handleGetPublicAdSenseConfig)
}

// AdSenseOutput wraps the AdSense config for Huma.
type AdSenseOutput struct {
	Body *domain.AdSenseConfig
}

// NullableAdSenseOutput wraps a config lookup that may find nothing.
type NullableAdSenseOutput struct {
	Body Nullable[domain.AdSenseConfig]
}

// PublicAdSenseOutput wraps the public config for Huma.
type PublicAdSenseOutput struct {
	Body Nullable[domain.PublicAdSenseConfig]
}

// UpdateAdSenseInput wraps the config update for Huma.
type UpdateAdSenseInput struct {
	Body service.UpdateAdSenseRequest
}

func (s *Server) handleGetAdSenseConfig(ctx context.Context, _ *struct{}) (*NullableAdSenseOutput, error) {
	cfg, err := s.services.AdSense.GetConfig(ctx, actorFrom(ctx))
	if err != nil {
		return nil, err
	}
	return &NullableAdSenseOutput{Body: NullableOf(cfg)}, nil
}

func (s *Server) handleUpdateAdSenseConfig(ctx context.Context, input *UpdateAdSenseInput) (*AdSenseOutput, error) {
	cfg, err := s.services.AdSense.UpdateConfig(ctx, actorFrom(ctx), input.Body)
	if err != nil {
		return nil, err
	}
	return &AdSenseOutput{Body: cfg}, nil
}

func (s *Server) handleGetPublicAdSenseConfig(ctx context.Context, _ *struct{}) (*PublicAdSenseOutput, error) {
	cfg, err := s.services.AdSense.GetPublicConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &PublicAdSenseOutput{Body: NullableOf(cfg)}, nil
}
