package app

import (
	"context"
	"errors"
	"fmt"

	"qrmenu/internal/briefing"
	"qrmenu/internal/design"
	"qrmenu/internal/gateway/config"
	"qrmenu/internal/gateway/handler"
	"qrmenu/internal/gateway/handler/rpc"
	"qrmenu/internal/gateway/server"
	"qrmenu/internal/gateway/session"
	"qrmenu/internal/llm"
	"qrmenu/internal/publish"
)

type App struct {
	server  *server.Server
	gateway *llm.Gateway
	stores  *gatewayStores
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(context.Background(), cfg)
}

// NewWithConfig wires the gateway from an already loaded config.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	stores, err := initStores(cfg)
	if err != nil {
		return nil, err
	}

	// Model gateway
	backends, err := buildBackends(ctx, cfg.LLM.Backends)
	if err != nil {
		_ = stores.Close()
		return nil, err
	}
	guard := llm.NewGuard(cfg.LLM.RPM, cfg.LLM.BudgetUSD)
	opts := []llm.Option{llm.WithTokenCaps(cfg.LLM.PaidMaxTokens, cfg.LLM.FreeMaxTokens)}
	if cfg.LLM.Temperature > 0 {
		opts = append(opts, llm.WithTemperature(cfg.LLM.Temperature))
	}
	gateway := llm.NewGateway(backends, guard, opts...)

	// Design loop
	compiler := briefing.NewCompiler(stores.menus, cfg.Design.BriefingPeriod)
	agent := design.NewAgent(gateway, compiler, design.WithChangeDelay(cfg.Design.ChangeDelay))
	sessions := session.NewStore(agent, cfg.Sessions.MaxEntries, cfg.Sessions.TTL)
	publisher := publish.NewPublisher(stores.layouts, stores.pages, cfg.PublicBaseURL)

	// Routing & Server
	mux := server.NewMux(server.Handlers{
		Design:   handler.NewDesignHandler(agent),
		Sessions: handler.NewSessionHandler(sessions, publisher),
		Menu:     handler.NewMenuHandler(publisher, stores.menus),
		Usage:    handler.NewUsageHandler(gateway),
		Layout:   rpc.NewLayoutHandler(stores.layouts, publisher),
	}, cfg.AllowedOrigins)
	srv := server.New(cfg.Port, mux)

	return &App{
		server:  srv,
		gateway: gateway,
		stores:  stores,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	return errors.Join(err, a.gateway.Close(), a.stores.Close())
}
