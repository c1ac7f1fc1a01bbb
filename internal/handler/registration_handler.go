package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/techmania/registration-service/internal/auth"
	"github.com/techmania/registration-service/internal/dto"
	"github.com/techmania/registration-service/internal/export"
	"github.com/techmania/registration-service/internal/models"
	"github.com/techmania/registration-service/internal/pricing"
	"github.com/techmania/registration-service/internal/service"
	"github.com/techmania/registration-service/internal/session"
)

type RegistrationHandler struct {
	svc  service.RegistrationService
	auth auth.Authenticator
}

func NewRegistrationHandler(svc service.RegistrationService, authenticator auth.Authenticator) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, auth: authenticator}
}

func (h *RegistrationHandler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.GET("/pricing", h.GetPricing)
	api.GET("/pricing/quote", h.GetQuote)
	api.GET("/registrations/form", h.GetRegistrationForm)
	api.POST("/registrations", h.CreateRegistration)
	api.POST("/admin/login", h.AdminLogin)

	admin := api.Group("/admin", echoMw.BasicAuth(func(username, password string, c echo.Context) (bool, error) {
		return h.auth.Authenticate(username, password), nil
	}))
	admin.GET("/registrations", h.ListRegistrations)
	admin.GET("/registrations/stats", h.GetStats)
	admin.GET("/registrations/export", h.ExportRegistrations)
}

// selectionFrom builds a Session from optional request values, defaulting to
// combo with a team of 2 when a value is absent.
func selectionFrom(eventType string, teamSize int) (*session.Session, error) {
	sel := session.New()
	if eventType != "" {
		if err := sel.SetEventType(models.EventType(eventType)); err != nil {
			return nil, err
		}
	}
	if teamSize != 0 {
		if err := sel.SetTeamSize(teamSize); err != nil {
			return nil, err
		}
	}
	return sel, nil
}

func (h *RegistrationHandler) CreateRegistration(c echo.Context) error {
	var req dto.CreateRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.TeamName) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "teamName is required")
	}

	sel, err := selectionFrom(req.EventType, req.TeamSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	raw := service.RawRegistration{
		TeamName:      req.TeamName,
		Members:       req.TeamMembers,
		Mobile:        req.Mobile,
		TransactionID: req.TransactionID,
	}

	reg, err := h.svc.Submit(c.Request().Context(), raw, sel)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIncompleteTeam),
			errors.Is(err, service.ErrInvalidMobile),
			errors.Is(err, service.ErrInvalidTransactionID):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) GetPricing(c echo.Context) error {
	return c.JSON(http.StatusOK, pricing.Table())
}

func (h *RegistrationHandler) GetQuote(c echo.Context) error {
	sel, err := h.selectionFromQuery(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.QuoteResponse{
		EventType: sel.EventType(),
		TeamSize:  sel.TeamSize(),
		Price:     sel.CurrentPrice(),
	})
}

func (h *RegistrationHandler) GetRegistrationForm(c echo.Context) error {
	sel, err := h.selectionFromQuery(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FormResponse{
		EventType: sel.EventType(),
		TeamSize:  sel.TeamSize(),
		Price:     sel.CurrentPrice(),
		Fields:    session.MemberFields(sel.TeamSize()),
	})
}

func (h *RegistrationHandler) selectionFromQuery(c echo.Context) (*session.Session, error) {
	teamSize := 0
	if raw := c.QueryParam("team_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid team_size")
		}
		teamSize = n
	}

	sel, err := selectionFrom(c.QueryParam("event_type"), teamSize)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return sel, nil
}

func (h *RegistrationHandler) AdminLogin(c echo.Context) error {
	var req dto.AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	// Same message for bad username and bad password.
	if !h.auth.Authenticate(req.Username, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "login successful"})
}

func (h *RegistrationHandler) ListRegistrations(c echo.Context) error {
	var filter *models.EventType
	if raw := c.QueryParam("event_type"); raw != "" {
		eventType := models.EventType(raw)
		if !eventType.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown event type")
		}
		filter = &eventType
	}

	regs, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.RegistrationResponse, len(regs))
	for i, reg := range regs {
		resp[i] = dto.ToRegistrationResponse(&reg)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *RegistrationHandler) GetStats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ToStatsResponse(stats))
}

func (h *RegistrationHandler) ExportRegistrations(c echo.Context) error {
	csv, err := h.svc.ExportCSV(c.Request().Context())
	if err != nil {
		if errors.Is(err, export.ErrNoRegistrations) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	filename := export.Filename(time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
