// Package store persists projects and messages as JSON array files.
package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Zachkp/portfolio-backend/internal/domain"
)

// Options configures a Store.
type Options struct {
	ProjectsFile string
	MessagesFile string
	Logger       *zap.Logger
	Now          func() time.Time
}

// Store owns the projects and messages collections. Every operation re-reads
// the collection file; nothing is cached between calls.
type Store struct {
	projects *Collection[domain.Project]
	messages *Collection[domain.Message]
	ids      *idGenerator
	validate *domain.Validator
	logger   *zap.Logger
}

// Open creates any missing collection files and returns the store.
func Open(opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	projects, err := OpenCollection[domain.Project](opts.ProjectsFile)
	if err != nil {
		return nil, fmt.Errorf("open projects: %w", err)
	}
	messages, err := OpenCollection[domain.Message](opts.MessagesFile)
	if err != nil {
		return nil, fmt.Errorf("open messages: %w", err)
	}

	logger.Info("record store ready",
		zap.String("projects", projects.Path()),
		zap.String("messages", messages.Path()),
	)

	return &Store{
		projects: projects,
		messages: messages,
		ids:      newIDGenerator(opts.Now),
		validate: domain.NewValidator(),
		logger:   logger,
	}, nil
}

// ListProjects returns projects in storage order (oldest first).
func (s *Store) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.projects.Load(ctx)
}

func (s *Store) CreateProject(ctx context.Context, in domain.NewProject) (domain.Project, error) {
	if err := s.validate.Validate(in); err != nil {
		return domain.Project{}, err
	}

	var created domain.Project
	err := s.projects.Mutate(ctx, func(projects []domain.Project) ([]domain.Project, error) {
		for _, p := range projects {
			s.ids.observe(p.ID)
		}
		id, now := s.ids.next()
		created = domain.Project{
			ID:          id,
			Heading:     in.Heading,
			Description: in.Description,
			Image:       in.Image,
			TechStacks:  append([]string{}, in.TechStacks...),
			GithubLink:  in.GithubLink,
			LiveLink:    in.LiveLink,
			CreatedAt:   now,
		}
		return append(projects, created), nil
	})
	if err != nil {
		return domain.Project{}, err
	}

	s.logger.Info("project created", zap.String("id", created.ID))
	return created, nil
}

// UpdateProject merges patch over the project with the given id.
func (s *Store) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (domain.Project, error) {
	if err := s.validate.Validate(patch); err != nil {
		return domain.Project{}, err
	}

	var updated domain.Project
	err := s.projects.Mutate(ctx, func(projects []domain.Project) ([]domain.Project, error) {
		for i := range projects {
			if projects[i].ID == id {
				projects[i] = patch.Apply(projects[i])
				updated = projects[i]
				return projects, nil
			}
		}
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	})
	if err != nil {
		return domain.Project{}, err
	}

	s.logger.Info("project updated", zap.String("id", id))
	return updated, nil
}

// DeleteProject removes every project with the given id. Deleting an unknown
// id is not an error.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	removed, err := deleteByID(ctx, s.projects, id)
	if err != nil {
		return err
	}
	s.logger.Info("project deleted", zap.String("id", id), zap.Int("removed", removed))
	return nil
}

// ListMessages returns messages in insertion order.
func (s *Store) ListMessages(ctx context.Context) ([]domain.Message, error) {
	return s.messages.Load(ctx)
}

func (s *Store) CreateMessage(ctx context.Context, in domain.NewMessage) (domain.Message, error) {
	if err := s.validate.Validate(in); err != nil {
		return domain.Message{}, err
	}

	var created domain.Message
	err := s.messages.Mutate(ctx, func(messages []domain.Message) ([]domain.Message, error) {
		for _, m := range messages {
			s.ids.observe(m.ID)
		}
		id, now := s.ids.next()
		created = domain.Message{
			ID:        id,
			Name:      in.Name,
			Email:     in.Email,
			Message:   in.Message,
			CreatedAt: now,
		}
		return append(messages, created), nil
	})
	if err != nil {
		return domain.Message{}, err
	}

	s.logger.Info("message stored", zap.String("id", created.ID))
	return created, nil
}

func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	removed, err := deleteByID(ctx, s.messages, id)
	if err != nil {
		return err
	}
	s.logger.Info("message deleted", zap.String("id", id), zap.Int("removed", removed))
	return nil
}

// Check reads both collections; used by the health probe.
func (s *Store) Check(ctx context.Context) error {
	if _, err := s.projects.Load(ctx); err != nil {
		return err
	}
	_, err := s.messages.Load(ctx)
	return err
}

func deleteByID[T Record](ctx context.Context, c *Collection[T], id string) (int, error) {
	removed := 0
	err := c.Mutate(ctx, func(records []T) ([]T, error) {
		kept := records[:0]
		for _, r := range records {
			if r.RecordID() == id {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		return kept, nil
	})
	return removed, err
}
