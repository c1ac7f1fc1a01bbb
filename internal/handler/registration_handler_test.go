package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmania/registration-service/internal/auth"
	"github.com/techmania/registration-service/internal/dto"
	"github.com/techmania/registration-service/internal/export"
	"github.com/techmania/registration-service/internal/models"
	"github.com/techmania/registration-service/internal/service"
	"github.com/techmania/registration-service/internal/session"
)

// --- Mock RegistrationService ---

type mockRegistrationService struct {
	buildFn  func(raw service.RawRegistration, sel *session.Session) (*models.Registration, error)
	submitFn func(ctx context.Context, raw service.RawRegistration, sel *session.Session) (*models.Registration, error)
	statsFn  func(ctx context.Context) (*service.Stats, error)
	listFn   func(ctx context.Context, filter *models.EventType) ([]models.Registration, error)
	exportFn func(ctx context.Context) (string, error)
}

func (m *mockRegistrationService) Build(raw service.RawRegistration, sel *session.Session) (*models.Registration, error) {
	return m.buildFn(raw, sel)
}
func (m *mockRegistrationService) Submit(ctx context.Context, raw service.RawRegistration, sel *session.Session) (*models.Registration, error) {
	return m.submitFn(ctx, raw, sel)
}
func (m *mockRegistrationService) Stats(ctx context.Context) (*service.Stats, error) {
	return m.statsFn(ctx)
}
func (m *mockRegistrationService) List(ctx context.Context, filter *models.EventType) ([]models.Registration, error) {
	return m.listFn(ctx, filter)
}
func (m *mockRegistrationService) ExportCSV(ctx context.Context) (string, error) {
	return m.exportFn(ctx)
}

func testContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sampleRegistration() *models.Registration {
	return &models.Registration{
		ID:              "reg-1",
		TeamName:        "Byte Busters",
		EventType:       models.EventHackathon,
		TeamSize:        2,
		TeamLead:        "Asha Rao",
		TeamMembers:     []string{"Asha Rao", "Vikram Iyer"},
		Mobile:          "9876543210",
		TransactionID:   "TXN12345",
		RegistrationFee: 299,
		CreatedAt:       time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

// --- CreateRegistration ---

func TestCreateRegistration_Success(t *testing.T) {
	var gotSel *session.Session
	svc := &mockRegistrationService{
		submitFn: func(ctx context.Context, raw service.RawRegistration, sel *session.Session) (*models.Registration, error) {
			gotSel = sel
			return sampleRegistration(), nil
		},
	}

	body := `{"teamName":"Byte Busters","eventType":"hackathon","teamSize":2,"teamMembers":["Asha Rao","Vikram Iyer"],"mobile":"9876543210","transactionId":"TXN12345"}`
	c, rec := testContext(http.MethodPost, "/api/v1/registrations", body)

	h := NewRegistrationHandler(svc, nil)
	err := h.CreateRegistration(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, gotSel)
	assert.Equal(t, models.EventHackathon, gotSel.EventType())
	assert.Equal(t, 2, gotSel.TeamSize())
	assert.Equal(t, 299, gotSel.CurrentPrice())

	var resp dto.RegistrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "reg-1", resp.ID)
	assert.Equal(t, 299, resp.RegistrationFee)
}

func TestCreateRegistration_DefaultsToComboOfTwo(t *testing.T) {
	var gotSel *session.Session
	svc := &mockRegistrationService{
		submitFn: func(ctx context.Context, raw service.RawRegistration, sel *session.Session) (*models.Registration, error) {
			gotSel = sel
			return sampleRegistration(), nil
		},
	}

	body := `{"teamName":"Byte Busters","teamMembers":["A","B"],"mobile":"9876543210","transactionId":"TXN12345"}`
	c, rec := testContext(http.MethodPost, "/api/v1/registrations", body)

	h := NewRegistrationHandler(svc, nil)
	require.NoError(t, h.CreateRegistration(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, gotSel)
	assert.Equal(t, models.EventCombo, gotSel.EventType())
	assert.Equal(t, 2, gotSel.TeamSize())
	assert.Equal(t, 479, gotSel.CurrentPrice())
}

func TestCreateRegistration_MissingTeamName(t *testing.T) {
	body := `{"teamName":"   ","teamMembers":["A","B"],"mobile":"9876543210","transactionId":"TXN12345"}`
	c, _ := testContext(http.MethodPost, "/api/v1/registrations", body)

	h := NewRegistrationHandler(nil, nil)
	err := h.CreateRegistration(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateRegistration_UnknownEventType(t *testing.T) {
	body := `{"teamName":"T","eventType":"chess","teamMembers":["A","B"],"mobile":"9876543210","transactionId":"TXN12345"}`
	c, _ := testContext(http.MethodPost, "/api/v1/registrations", body)

	h := NewRegistrationHandler(nil, nil)
	err := h.CreateRegistration(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateRegistration_TeamSizeOutOfRange(t *testing.T) {
	body := `{"teamName":"T","eventType":"combo","teamSize":5,"teamMembers":["A"],"mobile":"9876543210","transactionId":"TXN12345"}`
	c, _ := testContext(http.MethodPost, "/api/v1/registrations", body)

	h := NewRegistrationHandler(nil, nil)
	err := h.CreateRegistration(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateRegistration_ValidationErrorsMapTo400(t *testing.T) {
	for _, svcErr := range []error{
		&service.IncompleteTeamError{Required: 3, Provided: 2},
		service.ErrInvalidMobile,
		service.ErrInvalidTransactionID,
	} {
		svc := &mockRegistrationService{
			submitFn: func(ctx context.Context, raw service.RawRegistration, sel *session.Session) (*models.Registration, error) {
				return nil, svcErr
			},
		}

		body := `{"teamName":"T","teamMembers":["A","B"],"mobile":"123","transactionId":"x"}`
		c, _ := testContext(http.MethodPost, "/api/v1/registrations", body)

		h := NewRegistrationHandler(svc, nil)
		err := h.CreateRegistration(c)

		he, ok := err.(*echo.HTTPError)
		require.True(t, ok, "error %v", svcErr)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	}
}

// --- Pricing ---

func TestGetQuote(t *testing.T) {
	c, rec := testContext(http.MethodGet, "/api/v1/pricing/quote?event_type=hackathon&team_size=4", "")

	h := NewRegistrationHandler(nil, nil)
	require.NoError(t, h.GetQuote(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.EventHackathon, resp.EventType)
	assert.Equal(t, 4, resp.TeamSize)
	assert.Equal(t, 499, resp.Price)
}

func TestGetQuote_InvalidTeamSize(t *testing.T) {
	c, _ := testContext(http.MethodGet, "/api/v1/pricing/quote?team_size=abc", "")

	h := NewRegistrationHandler(nil, nil)
	err := h.GetQuote(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetPricing(t *testing.T) {
	c, rec := testContext(http.MethodGet, "/api/v1/pricing", "")

	h := NewRegistrationHandler(nil, nil)
	require.NoError(t, h.GetPricing(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 479, resp["combo"]["2"])
	assert.Equal(t, 159, resp["hackathon"]["1"])
}

func TestGetRegistrationForm(t *testing.T) {
	c, rec := testContext(http.MethodGet, "/api/v1/registrations/form?event_type=coding&team_size=3", "")

	h := NewRegistrationHandler(nil, nil)
	require.NoError(t, h.GetRegistrationForm(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.FormResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.EventCoding, resp.EventType)
	assert.Equal(t, 139, resp.Price)
	require.Len(t, resp.Fields, 3)
	assert.Equal(t, "Team Lead (Member 1)", resp.Fields[0].Label)
}

// --- Admin ---

func TestAdminLogin_Success(t *testing.T) {
	c, rec := testContext(http.MethodPost, "/api/v1/admin/login", `{"username":"admin","password":"admin123"}`)

	h := NewRegistrationHandler(nil, auth.NewStaticAuthenticator("admin", "admin123"))
	require.NoError(t, h.AdminLogin(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminLogin_BadCredentials(t *testing.T) {
	for _, body := range []string{
		`{"username":"admin","password":"nope"}`,
		`{"username":"nope","password":"admin123"}`,
	} {
		c, _ := testContext(http.MethodPost, "/api/v1/admin/login", body)

		h := NewRegistrationHandler(nil, auth.NewStaticAuthenticator("admin", "admin123"))
		err := h.AdminLogin(c)

		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
		assert.Equal(t, "invalid username or password", he.Message)
	}
}

func TestListRegistrations_PassesFilter(t *testing.T) {
	var gotFilter *models.EventType
	svc := &mockRegistrationService{
		listFn: func(ctx context.Context, filter *models.EventType) ([]models.Registration, error) {
			gotFilter = filter
			return []models.Registration{*sampleRegistration()}, nil
		},
	}

	c, rec := testContext(http.MethodGet, "/api/v1/admin/registrations?event_type=hackathon", "")

	h := NewRegistrationHandler(svc, nil)
	require.NoError(t, h.ListRegistrations(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, gotFilter)
	assert.Equal(t, models.EventHackathon, *gotFilter)

	var resp []dto.RegistrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Byte Busters", resp[0].TeamName)
}

func TestListRegistrations_UnknownFilter(t *testing.T) {
	c, _ := testContext(http.MethodGet, "/api/v1/admin/registrations?event_type=chess", "")

	h := NewRegistrationHandler(nil, nil)
	err := h.ListRegistrations(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetStats(t *testing.T) {
	svc := &mockRegistrationService{
		statsFn: func(ctx context.Context) (*service.Stats, error) {
			return &service.Stats{
				Total: 4,
				ByEvent: map[models.EventType]int{
					models.EventHackathon: 2,
					models.EventCoding:    1,
					models.EventCombo:     1,
				},
			}, nil
		},
	}

	c, rec := testContext(http.MethodGet, "/api/v1/admin/registrations/stats", "")

	h := NewRegistrationHandler(svc, nil)
	require.NoError(t, h.GetStats(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, 2, resp.Hackathon)
	assert.Equal(t, 1, resp.Coding)
	assert.Equal(t, 1, resp.Combo)
}

func TestExportRegistrations_SetsDownloadHeaders(t *testing.T) {
	svc := &mockRegistrationService{
		exportFn: func(ctx context.Context) (string, error) {
			return "Team Name,Event Type\n\"T\",\"combo\"", nil
		},
	}

	c, rec := testContext(http.MethodGet, "/api/v1/admin/registrations/export", "")

	h := NewRegistrationHandler(svc, nil)
	require.NoError(t, h.ExportRegistrations(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, "techmania2025-registrations-")
	assert.Contains(t, disposition, ".csv")
	assert.Equal(t, "Team Name,Event Type\n\"T\",\"combo\"", rec.Body.String())
}

func TestExportRegistrations_Empty(t *testing.T) {
	svc := &mockRegistrationService{
		exportFn: func(ctx context.Context) (string, error) {
			return "", export.ErrNoRegistrations
		},
	}

	c, _ := testContext(http.MethodGet, "/api/v1/admin/registrations/export", "")

	h := NewRegistrationHandler(svc, nil)
	err := h.ExportRegistrations(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

// --- Route guards ---

func TestAdminRoutes_RequireBasicAuth(t *testing.T) {
	svc := &mockRegistrationService{
		statsFn: func(ctx context.Context) (*service.Stats, error) {
			return &service.Stats{ByEvent: map[models.EventType]int{}}, nil
		},
	}

	e := echo.New()
	h := NewRegistrationHandler(svc, auth.NewStaticAuthenticator("admin", "admin123"))
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/registrations/stats", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/registrations/stats", nil)
	req.SetBasicAuth("admin", "admin123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRoute_NotBehindBasicAuth(t *testing.T) {
	e := echo.New()
	h := NewRegistrationHandler(nil, auth.NewStaticAuthenticator("admin", "admin123"))
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{"username":"admin","password":"admin123"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
