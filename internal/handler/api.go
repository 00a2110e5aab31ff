package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/facilops/chamados-service/internal/errs"
	"github.com/gin-gonic/gin"
)

// APIList returns the non-deleted tickets as JSON, for integrations.
func (h *Handler) APIList(c *gin.Context) {
	chamados, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list chamados"})
		return
	}
	type item struct {
		ID          uint64 `json:"id"`
		Requester   string `json:"requester"`
		Location    string `json:"location"`
		Description string `json:"description"`
		Assignee    string `json:"assignee,omitempty"`
		Status      string `json:"status"`
		CreatedAt   string `json:"created_at"`
		CompletedAt string `json:"completed_at,omitempty"`
	}
	items := make([]item, len(chamados))
	for i := range chamados {
		ch := &chamados[i]
		items[i] = item{
			ID:          ch.ID,
			Requester:   ch.Requester,
			Location:    ch.Location,
			Description: ch.Description,
			Assignee:    ch.Assignee,
			Status:      string(ch.Status()),
			CreatedAt:   ch.CreatedAt.Format(time.RFC3339),
		}
		if ch.CompletedAt != nil {
			items[i].CompletedAt = ch.CompletedAt.Format(time.RFC3339)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"chamados": items,
		"total":    len(items),
	})
}

// APIGet returns one ticket by id. Soft-deleted tickets stay reachable here
// until the purge removes them.
func (h *Handler) APIGet(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	chamado, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrChamadoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chamado not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"chamado": chamado,
		"status":  chamado.Status(),
	})
}
