package intake

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/peakmotion/intake/internal/platform/auth"
	"github.com/peakmotion/intake/pkg/pagination"
)

// SessionHeader carries the tracking session id on form-session requests.
const SessionHeader = "X-Session-ID"

type Handler struct {
	svc   *Service
	forms *FormManager
}

func NewHandler(svc *Service, forms *FormManager) *Handler {
	return &Handler{svc: svc, forms: forms}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Public form surface
	api.GET("/intake/options", h.GetOptions)
	api.POST("/intake", h.Submit)

	// Server-held form sessions
	api.POST("/intake/form", h.OpenForm)
	api.GET("/intake/form", h.GetForm)
	api.PATCH("/intake/form/fields", h.UpdateFormField)
	api.POST("/intake/form/submit", h.SubmitForm)
	api.DELETE("/intake/form", h.DiscardForm)

	// Staff triage endpoints
	staff := api.Group("", auth.RequireRole("admin", "staff"))
	staff.GET("/intake-submissions", h.ListSubmissions)
	staff.GET("/intake-submissions/:id", h.GetSubmission)
}

func (h *Handler) GetOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, FormOptions())
}

// submitRequest is the one-shot submission body: the draft plus the
// tracking session id issued by the sessions endpoint.
type submitRequest struct {
	Draft
	SessionID string `json:"session_id"`
}

func (h *Handler) Submit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sub, err := h.svc.Submit(c.Request().Context(), req.Draft, req.SessionID)
	if err != nil {
		return submitError(err)
	}
	return c.JSON(http.StatusCreated, sub)
}

// submitError maps the intake error taxonomy to HTTP responses. Validation
// and session problems are the visitor's to fix; a failed upstream save is
// reported as a bad gateway with the fallback-phone message.
func submitError(err error) error {
	var subErr *SubmissionError
	switch {
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrMissingSession):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &subErr):
		return echo.NewHTTPError(http.StatusBadGateway, subErr.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// -- Form session handlers --

func (h *Handler) sessionID(c echo.Context) (string, error) {
	id := c.Request().Header.Get(SessionHeader)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, ErrMissingSession.Error())
	}
	return id, nil
}

func (h *Handler) OpenForm(c echo.Context) error {
	id, err := h.sessionID(c)
	if err != nil {
		return err
	}
	f := h.forms.Open(id)
	return c.JSON(http.StatusCreated, f.View())
}

func (h *Handler) GetForm(c echo.Context) error {
	id, err := h.sessionID(c)
	if err != nil {
		return err
	}
	f, err := h.forms.Get(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, f.View())
}

// fieldUpdate is the body of a single-field edit.
type fieldUpdate struct {
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

func (h *Handler) UpdateFormField(c echo.Context) error {
	id, err := h.sessionID(c)
	if err != nil {
		return err
	}
	f, err := h.forms.Get(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	var upd fieldUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := f.UpdateField(upd.Field, upd.Value); err != nil {
		switch {
		case errors.Is(err, ErrSubmitInFlight):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrFormFinished):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, f.View())
}

func (h *Handler) SubmitForm(c echo.Context) error {
	id, err := h.sessionID(c)
	if err != nil {
		return err
	}
	f, err := h.forms.Get(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	view, err := f.Submit(c.Request().Context())
	if err != nil {
		if errors.Is(err, ErrSubmitInFlight) || errors.Is(err, ErrFormFinished) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		// The form stays editable with the error annotation; surface both
		// the view and the mapped status so the client can re-render.
		return c.JSON(httpStatusFor(err), view)
	}
	return c.JSON(http.StatusOK, view)
}

func httpStatusFor(err error) int {
	var subErr *SubmissionError
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrMissingSession):
		return http.StatusBadRequest
	case errors.As(err, &subErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *Handler) DiscardForm(c echo.Context) error {
	id, err := h.sessionID(c)
	if err != nil {
		return err
	}
	h.forms.Discard(id)
	return c.NoContent(http.StatusNoContent)
}

// -- Staff handlers --

func (h *Handler) ListSubmissions(c echo.Context) error {
	pg := pagination.FromContext(c)
	if location := c.QueryParam("location"); location != "" {
		items, total, err := h.svc.ListSubmissionsByLocation(c.Request().Context(), location, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	items, total, err := h.svc.ListSubmissions(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetSubmission(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sub, err := h.svc.GetSubmission(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "submission not found")
	}
	return c.JSON(http.StatusOK, sub)
}
