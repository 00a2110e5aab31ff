package router

import (
	"net/http"
	"strings"

	"github.com/facilops/chamados-service/api"
	"github.com/facilops/chamados-service/internal/auth"
	"github.com/facilops/chamados-service/internal/handler"
	"github.com/facilops/chamados-service/internal/report"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func New(h *handler.Handler, renderer *report.Renderer, sessionSecret string) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(auth.Middleware(sessionSecret))
	r.SetHTMLTemplate(renderer.Templates())

	r.GET("/health", handler.Health)
	r.GET("/ready", handler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/") })
	r.GET("/swagger/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = "/swagger/index.html"
			c.Request.RequestURI = "/swagger/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	r.GET("/", h.Index)
	r.GET("/chamados/novo", h.NewChamadoForm)
	r.POST("/chamados/novo", h.SubmitChamado)
	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)

	admin := r.Group("/admin", auth.RequireLogin())
	{
		admin.GET("", h.AdminPanel)
		admin.POST("/chamados/:id/concluir", h.CompleteChamado)
		admin.POST("/chamados/:id/excluir", h.DeleteChamado)
		admin.POST("/historico/apagar", h.PurgeHistory)
		admin.GET("/relatorio", h.ReportPage)
		admin.POST("/relatorio/html", h.ExportHTML)
		admin.GET("/relatorio.pdf", h.ExportPDF)
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/chamados", h.APIList)
		v1.GET("/chamados/:id", h.APIGet)
	}

	return r
}
