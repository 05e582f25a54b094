package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio-backend/internal/domain"
)

type createMessageReq struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (h *Handler) createMessage(c *gin.Context) {
	var req createMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, &domain.ValidationError{Field: "body", Message: "invalid JSON"}, "")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := h.validate.Validate(req); err != nil {
		h.respondError(c, err, "")
		return
	}

	m, err := h.messages.CreateMessage(c.Request.Context(), domain.NewMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	h.notify(m)
	c.JSON(http.StatusOK, m)
}

// notify mails the owner in the background; failures never reach the client.
func (h *Handler) notify(m domain.Message) {
	if h.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.notifier.MessageReceived(ctx, m); err != nil {
			h.logger.Warn("contact notification failed", zap.String("message_id", m.ID), zap.Error(err))
		}
	}()
}

// listMessages returns messages oldest first.
func (h *Handler) listMessages(c *gin.Context) {
	messages, err := h.messages.ListMessages(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	c.JSON(http.StatusOK, messages)
}

func (h *Handler) deleteMessage(c *gin.Context) {
	if err := h.messages.DeleteMessage(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}

func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}
