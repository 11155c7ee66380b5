package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tenderdesk/caseforum/internal/api/metrics"
	"github.com/tenderdesk/caseforum/internal/core/domain"
	"github.com/tenderdesk/caseforum/internal/router"
	"github.com/tenderdesk/caseforum/internal/view"
)

// PageBuilder renders the view model of a route for a session.
type PageBuilder interface {
	Build(ctx context.Context, route router.Route, session domain.Session) (view.Page, error)
}

// ViewHandler serves rendered view models for hash locations.
type ViewHandler struct {
	builder PageBuilder
	log     zerolog.Logger
}

func NewViewHandler(builder PageBuilder, log zerolog.Logger) *ViewHandler {
	return &ViewHandler{builder: builder, log: log}
}

// Get builds the page for a location.
//
// @Summary      Render a page
// @Description  Resolves a hash location such as "#/category/post" and returns the page for the caller's session. Build failures return the failure page.
// @Tags         views
// @Produce      json
// @Security     BearerAuth
// @Param        location  query     string  false  "Hash location, defaults to #/"
// @Success      200       {object}  view.Page
// @Failure      401       {object}  map[string]string
// @Failure      500       {object}  view.Page
// @Failure      502       {object}  view.Page
// @Router       /v1/views [get]
func (h *ViewHandler) Get(c echo.Context) error {
	session, err := ctxSession(c, false)
	if err != nil {
		return err
	}

	route := router.Parse(c.QueryParam("location"))
	start := time.Now()
	page, err := h.builder.Build(c.Request().Context(), route, session)
	metrics.ViewBuildDuration.WithLabelValues(string(route.Name)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ViewsBuiltTotal.WithLabelValues(string(route.Name), "failure").Inc()
		status := http.StatusInternalServerError
		var pe *domain.ProviderError
		if errors.As(err, &pe) {
			status = http.StatusBadGateway
		}
		h.log.Error().Err(err).Str("route", string(route.Name)).Msg("view build failed")
		return c.JSON(status, view.Failure(route, session, err))
	}

	metrics.ViewsBuiltTotal.WithLabelValues(string(route.Name), "ok").Inc()
	return c.JSON(http.StatusOK, page)
}
