package domain

import "time"

// Project is a portfolio entry shown in the projects showcase.
type Project struct {
	ID          string    `json:"_id"`
	Heading     string    `json:"heading"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	TechStacks  []string  `json:"techStacks"`
	GithubLink  string    `json:"githubLink,omitempty"`
	LiveLink    string    `json:"liveLink,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p Project) RecordID() string { return p.ID }

// Message is a contact form submission.
type Message struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m Message) RecordID() string { return m.ID }

// NewProject holds the fields accepted when a project is created.
// Image is the public path returned by the upload handler, or empty.
type NewProject struct {
	Heading     string `validate:"required"`
	Description string `validate:"required"`
	Image       string
	TechStacks  []string `validate:"required"`
	GithubLink  string
	LiveLink    string
}

// ProjectPatch holds the fields supplied on update. A nil field keeps the
// stored value.
type ProjectPatch struct {
	Heading     *string `validate:"omitnil,min=1"`
	Description *string `validate:"omitnil,min=1"`
	Image       *string
	TechStacks  *[]string
	GithubLink  *string
	LiveLink    *string
}

// Apply merges the supplied fields over p. ID and CreatedAt are never touched.
func (pp ProjectPatch) Apply(p Project) Project {
	if pp.Heading != nil {
		p.Heading = *pp.Heading
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Image != nil && *pp.Image != "" {
		p.Image = *pp.Image
	}
	if pp.TechStacks != nil {
		p.TechStacks = append([]string{}, (*pp.TechStacks)...)
	}
	if pp.GithubLink != nil {
		p.GithubLink = *pp.GithubLink
	}
	if pp.LiveLink != nil {
		p.LiveLink = *pp.LiveLink
	}
	return p
}

// NewMessage holds the fields of a contact form submission.
type NewMessage struct {
	Name    string `validate:"required"`
	Email   string `validate:"required"`
	Message string `validate:"required"`
}
