// Package apitest собирает полный HTTP API поверх хранилища в памяти.
package apitest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/barter-backend/internal/config"
	"github.com/ignatzorin/barter-backend/internal/http/middleware"
	"github.com/ignatzorin/barter-backend/internal/http/router"
	"github.com/ignatzorin/barter-backend/internal/interface/http/handler"
	"github.com/ignatzorin/barter-backend/internal/logger"
	"github.com/ignatzorin/barter-backend/internal/service"
	"github.com/ignatzorin/barter-backend/internal/usecase/bid"
	"github.com/ignatzorin/barter-backend/internal/usecase/project"
	"github.com/ignatzorin/barter-backend/internal/usecase/usecasetest"
)

const jwtSecret = "apitest-secret-apitest-secret-apitest"

type upDB struct{}

func (upDB) PingContext(context.Context) error { return nil }

// NewEngine возвращает роутер и хранилище, на котором он работает.
func NewEngine(t testing.TB) (*gin.Engine, *usecasetest.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Discard()

	store := usecasetest.NewStore()
	auth := service.NewAuthService(store.Users(), service.NewTokenManager(jwtSecret, time.Hour))
	limiter, err := middleware.NewRateLimiter(1000, time.Minute, nil)
	if err != nil {
		t.Fatalf("apitest: %v", err)
	}

	h := router.Handlers{
		Auth: handler.NewAuthHandler(auth),
		Project: handler.NewProjectHandler(
			project.NewCreateProjectUseCase(store.Projects()),
			project.NewListProjectsUseCase(store.Projects()),
			project.NewGetProjectUseCase(store.Projects()),
			project.NewUpdateProjectStatusUseCase(store.Projects()),
			project.NewDeleteProjectUseCase(store.Projects()),
		),
		Bid: handler.NewBidHandler(
			bid.NewSubmitBidUseCase(store.Bids(), store.Projects(), bid.NoopNotifier{}),
			bid.NewListProjectBidsUseCase(store.Bids(), store.Projects()),
			bid.NewListMyBidsUseCase(store.Bids()),
			bid.NewSetBidStatusUseCase(store.Bids(), store.Projects(), bid.NoopNotifier{}),
		),
		Health: handler.NewHealthHandler(upDB{}),
	}

	cfg := &config.Config{Env: "development", AllowedOrigins: []string{"http://localhost:3000"}}
	return router.SetupRouter(cfg, h, auth, limiter), store
}

// NewServer поднимает httptest сервер, который закрывается по окончании теста.
func NewServer(t testing.TB) *httptest.Server {
	t.Helper()
	engine, _ := NewEngine(t)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}
