package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tenderdesk/caseforum/internal/api/metrics"
	"github.com/tenderdesk/caseforum/internal/app"
	"github.com/tenderdesk/caseforum/internal/core/domain"
	"github.com/tenderdesk/caseforum/internal/view"
)

// ActionDispatcher executes view actions for a session.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, session domain.Session, action view.Action, input view.Input) (app.Outcome, error)
}

// ActionHandler runs the actions offered by rendered pages.
type ActionHandler struct {
	dispatcher ActionDispatcher
}

func NewActionHandler(dispatcher ActionDispatcher) *ActionHandler {
	return &ActionHandler{dispatcher: dispatcher}
}

type actionRequest struct {
	Action view.Action `json:"action"`
	Input  view.Input  `json:"input,omitempty"`
}

// Perform dispatches an action.
//
// @Summary      Perform an action
// @Description  Runs an action taken from a rendered page with the submitted form values. The outcome tells the client to follow a redirect or re-render.
// @Tags         actions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      actionRequest  true  "Action and form input"
// @Success      200   {object}  app.Outcome
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /v1/actions [post]
func (h *ActionHandler) Perform(c echo.Context) error {
	var req actionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := ctxSession(c, true)
	if err != nil {
		return err
	}

	outcome, err := h.dispatcher.Dispatch(c.Request().Context(), session, req.Action, req.Input)
	metrics.ActionsTotal.WithLabelValues(string(req.Action.Type), resultClass(err)).Inc()
	if err != nil {
		return err
	}

	if req.Action.Type == view.ActionCreateCase {
		if stage, perr := domain.ParseStage(req.Input.Get("stage")); perr == nil {
			metrics.CasesCreatedTotal.WithLabelValues(string(stage)).Inc()
		}
	}
	return c.JSON(http.StatusOK, outcome)
}

func resultClass(err error) string {
	var pe *domain.ProviderError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrMissing):
		return "missing"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.As(err, &pe):
		return "provider"
	}
	return "internal"
}
