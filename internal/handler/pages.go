package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/facilops/chamados-service/internal/auth"
	"github.com/facilops/chamados-service/internal/errs"
	"github.com/facilops/chamados-service/internal/events"
	"github.com/facilops/chamados-service/internal/monitoring"
	"github.com/facilops/chamados-service/internal/notify"
	"github.com/facilops/chamados-service/internal/report"
	"github.com/facilops/chamados-service/internal/service"
	"github.com/gin-gonic/gin"
)

// Handler serves the public pages and the gated admin panel. Domain outcomes
// (not found, already completed, validation) become flash messages and
// redirects, never error statuses.
type Handler struct {
	svc      *service.ChamadoService
	renderer *report.Renderer
	gate     *auth.Gate
	producer events.ChamadoEventProducer
	notifier *notify.Client
}

func New(svc *service.ChamadoService, renderer *report.Renderer, gate *auth.Gate, producer events.ChamadoEventProducer, notifier *notify.Client) *Handler {
	return &Handler{
		svc:      svc,
		renderer: renderer,
		gate:     gate,
		producer: producer,
		notifier: notifier,
	}
}

func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Flashes": auth.TakeFlashes(c),
	})
}

func (h *Handler) NewChamadoForm(c *gin.Context) {
	c.HTML(http.StatusOK, "registrar_chamado.html", gin.H{
		"Flashes": auth.TakeFlashes(c),
	})
}

// SubmitChamado handles the public form POST. Success and validation failure
// both 303 back to the form with a flash.
func (h *Handler) SubmitChamado(c *gin.Context) {
	chamado, err := h.svc.Submit(
		c.Request.Context(),
		c.PostForm("solicitante"),
		c.PostForm("local"),
		c.PostForm("descricao"),
	)
	switch {
	case errors.Is(err, errs.ErrValidation):
		auth.AddFlash(c, "warning", "Preencha solicitante, local e descrição.")
	case err != nil:
		log.Printf("handler: submit chamado: %v", err)
		auth.AddFlash(c, "danger", "Erro ao registrar o chamado. Tente novamente.")
	default:
		monitoring.TrackSubmitted()
		h.producer.ProduceAsync(events.EventCreated, events.ChamadoPayload(chamado))
		h.notifier.NotifyNewChamadoAsync(chamado)
		auth.AddFlash(c, "success", "Chamado registrado com sucesso!")
	}
	c.Redirect(http.StatusSeeOther, "/chamados/novo")
}

func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Flashes": auth.TakeFlashes(c),
	})
}

func (h *Handler) Login(c *gin.Context) {
	if h.gate.Login(c, c.PostForm("username"), c.PostForm("password")) {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	auth.AddFlash(c, "danger", "Usuário ou senha inválidos!")
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) Logout(c *gin.Context) {
	h.gate.Logout(c)
	auth.AddFlash(c, "success", "Você foi desconectado!")
	c.Redirect(http.StatusSeeOther, "/login")
}
