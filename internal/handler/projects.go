package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio-backend/internal/domain"
)

// projectForm is the multipart body of POST and PUT /api/projects. Nil
// fields were not sent.
type projectForm struct {
	Heading     *string
	Description *string
	TechStacks  *[]string
	GithubLink  *string
	LiveLink    *string
}

func parseProjectForm(c *gin.Context) (projectForm, error) {
	var f projectForm
	text := func(key string) *string {
		if v, ok := c.GetPostForm(key); ok {
			v = strings.TrimSpace(v)
			return &v
		}
		return nil
	}

	f.Heading = text("heading")
	f.Description = text("description")
	f.GithubLink = text("githubLink")
	f.LiveLink = text("liveLink")

	if raw, ok := c.GetPostForm("techStacks"); ok {
		var stacks []string
		if err := json.Unmarshal([]byte(raw), &stacks); err != nil {
			return f, &domain.ValidationError{Field: "techStacks", Message: "must be a JSON array of strings"}
		}
		if stacks == nil {
			stacks = []string{}
		}
		f.TechStacks = &stacks
	}
	return f, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// saveImage stores the optional "image" file and returns its public path,
// or "" when the request carries no file.
func (h *Handler) saveImage(c *gin.Context) (string, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", &domain.UploadError{Err: err}
	}
	return h.uploads.Save(fh)
}

// discardImage removes an upload whose record never got stored.
func (h *Handler) discardImage(image string) {
	if image == "" {
		return
	}
	if err := h.uploads.Remove(image); err != nil {
		h.logger.Warn("failed to remove orphaned upload", zap.String("image", image), zap.Error(err))
	}
}

func (h *Handler) createProject(c *gin.Context) {
	form, err := parseProjectForm(c)
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	in := domain.NewProject{
		Heading:     deref(form.Heading),
		Description: deref(form.Description),
		GithubLink:  deref(form.GithubLink),
		LiveLink:    deref(form.LiveLink),
	}
	if form.TechStacks != nil {
		in.TechStacks = *form.TechStacks
	}
	if err := h.validate.Validate(in); err != nil {
		h.respondError(c, err, "")
		return
	}

	in.Image, err = h.saveImage(c)
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	p, err := h.projects.CreateProject(c.Request.Context(), in)
	if err != nil {
		h.discardImage(in.Image)
		h.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, p)
}

// listProjects returns the newest project first.
func (h *Handler) listProjects(c *gin.Context) {
	projects, err := h.projects.ListProjects(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	slices.Reverse(projects)
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) updateProject(c *gin.Context) {
	id := c.Param("id")

	form, err := parseProjectForm(c)
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	patch := domain.ProjectPatch{
		Heading:     form.Heading,
		Description: form.Description,
		TechStacks:  form.TechStacks,
		GithubLink:  form.GithubLink,
		LiveLink:    form.LiveLink,
	}
	if err := h.validate.Validate(patch); err != nil {
		h.respondError(c, err, "")
		return
	}

	image, err := h.saveImage(c)
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	if image != "" {
		patch.Image = &image
	}

	p, err := h.projects.UpdateProject(c.Request.Context(), id, patch)
	if err != nil {
		h.discardImage(image)
		h.respondError(c, err, "Project not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteProject(c *gin.Context) {
	if err := h.projects.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}
