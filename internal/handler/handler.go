// Package handler exposes the record store over HTTP.
package handler

import (
	"context"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio-backend/internal/analytics"
	"github.com/Zachkp/portfolio-backend/internal/domain"
)

type ProjectStore interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	CreateProject(ctx context.Context, in domain.NewProject) (domain.Project, error)
	UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

type MessageStore interface {
	ListMessages(ctx context.Context) ([]domain.Message, error)
	CreateMessage(ctx context.Context, in domain.NewMessage) (domain.Message, error)
	DeleteMessage(ctx context.Context, id string) error
}

// Uploader stores an uploaded file and returns its public path.
type Uploader interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(publicPath string) error
}

// Notifier is told about every stored contact message.
type Notifier interface {
	MessageReceived(ctx context.Context, m domain.Message) error
}

// StatsSource reports visitor analytics.
type StatsSource interface {
	Stats(ctx context.Context) (*analytics.Stats, error)
}

// Deps bundles the dependencies of the API handlers. Notifier and Stats may
// be nil.
type Deps struct {
	Projects ProjectStore
	Messages MessageStore
	Uploads  Uploader
	Notifier Notifier
	Stats    StatsSource
	Logger   *zap.Logger
}

type Handler struct {
	projects ProjectStore
	messages MessageStore
	uploads  Uploader
	notifier Notifier
	stats    StatsSource
	validate *domain.Validator
	logger   *zap.Logger
}

func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		projects: d.Projects,
		messages: d.Messages,
		uploads:  d.Uploads,
		notifier: d.Notifier,
		stats:    d.Stats,
		validate: domain.NewValidator(),
		logger:   logger,
	}
}

// Register attaches the API routes to rg.
func (h *Handler) Register(rg gin.IRouter) {
	api := rg.Group("/api")

	api.POST("/projects", h.createProject)
	api.GET("/projects", h.listProjects)
	api.PUT("/projects/:id", h.updateProject)
	api.DELETE("/projects/:id", h.deleteProject)

	api.POST("/messages", h.createMessage)
	api.GET("/messages", h.listMessages)
	api.DELETE("/messages/:id", h.deleteMessage)

	if h.stats != nil {
		api.GET("/stats", h.getStats)
	}
}
