package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/facilops/chamados-service/internal/auth"
	"github.com/facilops/chamados-service/internal/errs"
	"github.com/facilops/chamados-service/internal/events"
	"github.com/facilops/chamados-service/internal/monitoring"
	"github.com/gin-gonic/gin"
)

// AdminPanel lists non-deleted tickets with their computed status.
func (h *Handler) AdminPanel(c *gin.Context) {
	chamados, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		log.Printf("handler: list chamados: %v", err)
		c.String(http.StatusInternalServerError, "Erro ao carregar os chamados.")
		return
	}
	pending, err := h.svc.PendingCount(c.Request.Context())
	if err != nil {
		log.Printf("handler: pending count: %v", err)
	} else {
		monitoring.SetPending(pending)
	}
	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Chamados":     chamados,
		"PendingCount": pending,
		"Flashes":      auth.TakeFlashes(c),
	})
}

// CompleteChamado marks a ticket completed, recording the logged-in
// administrator as the assignee. Already-completed is a no-op with an
// informational flash.
func (h *Handler) CompleteChamado(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	chamado, err := h.svc.Complete(c.Request.Context(), id, auth.CurrentUser(c))
	switch {
	case errors.Is(err, errs.ErrAlreadyCompleted):
		auth.AddFlash(c, "info", "Chamado já está concluído.")
	case errors.Is(err, errs.ErrChamadoNotFound):
		auth.AddFlash(c, "danger", "Chamado não encontrado.")
	case err != nil:
		log.Printf("handler: complete chamado %d: %v", id, err)
		auth.AddFlash(c, "danger", "Erro ao concluir o chamado.")
	default:
		monitoring.TrackCompleted()
		h.producer.ProduceAsync(events.EventCompleted, events.ChamadoPayload(chamado))
		auth.AddFlash(c, "success", "Chamado concluído com sucesso!")
	}
	c.Redirect(http.StatusSeeOther, "/admin")
}

// DeleteChamado soft-deletes a ticket. The record stays until purge.
func (h *Handler) DeleteChamado(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	err := h.svc.SoftDelete(c.Request.Context(), id)
	switch {
	case errors.Is(err, errs.ErrChamadoNotFound):
		auth.AddFlash(c, "danger", "Chamado não encontrado.")
	case err != nil:
		log.Printf("handler: delete chamado %d: %v", id, err)
		auth.AddFlash(c, "danger", "Erro ao excluir o chamado.")
	default:
		monitoring.TrackDeleted()
		h.producer.ProduceAsync(events.EventDeleted, map[string]interface{}{"chamado_id": int64(id)})
		auth.AddFlash(c, "success", "Chamado excluído.")
	}
	c.Redirect(http.StatusSeeOther, "/admin")
}

// PurgeHistory physically removes every completed ticket. Confirmation lives
// in the admin page, not here.
func (h *Handler) PurgeHistory(c *gin.Context) {
	n, err := h.svc.PurgeCompleted(c.Request.Context())
	if err != nil {
		log.Printf("handler: purge history: %v", err)
		auth.AddFlash(c, "danger", "Erro ao apagar o histórico.")
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	monitoring.TrackPurged(n)
	h.producer.ProduceAsync(events.EventPurged, map[string]interface{}{"removed": n})
	auth.AddFlash(c, "success", fmt.Sprintf("Histórico apagado: %d chamados concluídos removidos.", n))
	c.Redirect(http.StatusSeeOther, "/admin")
}

// ReportPage renders the report on screen.
func (h *Handler) ReportPage(c *gin.Context) {
	chamados, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		log.Printf("handler: report page: %v", err)
		c.String(http.StatusInternalServerError, "Erro ao gerar o relatório.")
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.renderer.WriteHTML(c.Writer, chamados); err != nil {
		log.Printf("handler: render report: %v", err)
	}
}

// ExportHTML serves the same rendering as ReportPage as a download.
func (h *Handler) ExportHTML(c *gin.Context) {
	chamados, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		log.Printf("handler: export html: %v", err)
		c.String(http.StatusInternalServerError, "Erro ao gerar o relatório.")
		return
	}
	start := time.Now()
	var buf bytes.Buffer
	if err := h.renderer.WriteHTML(&buf, chamados); err != nil {
		log.Printf("handler: export html render: %v", err)
		c.String(http.StatusInternalServerError, "Erro ao gerar o relatório.")
		return
	}
	monitoring.TrackReportRender("html", time.Since(start))
	c.Header("Content-Disposition", `attachment; filename=relatorio.html`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// ExportPDF serves the paginated rendering as a download.
func (h *Handler) ExportPDF(c *gin.Context) {
	chamados, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		log.Printf("handler: export pdf: %v", err)
		c.String(http.StatusInternalServerError, "Erro ao gerar o relatório.")
		return
	}
	start := time.Now()
	var buf bytes.Buffer
	if err := h.renderer.WritePDF(&buf, chamados); err != nil {
		log.Printf("handler: export pdf render: %v", err)
		c.String(http.StatusInternalServerError, "Erro ao gerar o relatório.")
		return
	}
	monitoring.TrackReportRender("pdf", time.Since(start))
	c.Header("Content-Disposition", `attachment; filename=relatorio.pdf`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *Handler) paramID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		auth.AddFlash(c, "danger", "Chamado não encontrado.")
		c.Redirect(http.StatusSeeOther, "/admin")
		return 0, false
	}
	return id, true
}
