package bootstrap

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio-backend/internal/analytics"
	"github.com/Zachkp/portfolio-backend/internal/handler"
	"github.com/Zachkp/portfolio-backend/internal/store"
	"github.com/Zachkp/portfolio-backend/internal/upload"
)

type RouterDeps struct {
	Version     string
	FrontendURL string
	UploadDir   string
	Store       *store.Store
	Uploads     *upload.Disk
	Notifier    handler.Notifier
	Tracker     *analytics.Tracker
	Logger      *zap.Logger
	MaxUploadMB int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = int64(dep.MaxUploadMB) << 20

	r.Use(gin.Recovery())
	r.Use(handler.RequestLogger(dep.Logger))
	r.Use(handler.CORS(dep.FrontendURL))
	if dep.Tracker != nil {
		r.Use(dep.Tracker.Middleware())
	}

	r.Static("/uploads", dep.UploadDir)

	checks := map[string]func(context.Context) error{"store": dep.Store.Check}
	if dep.Tracker != nil {
		checks["analytics"] = dep.Tracker.Ping
	}
	handler.NewHealthHandler(dep.Version, checks).RegisterRoutes(r)

	deps := handler.Deps{
		Projects: dep.Store,
		Messages: dep.Store,
		Uploads:  dep.Uploads,
		Notifier: dep.Notifier,
		Logger:   dep.Logger,
	}
	// a typed nil tracker must not reach the handler's nil check
	if dep.Tracker != nil {
		deps.Stats = dep.Tracker
	}
	handler.New(deps).Register(r)

	return r
}
