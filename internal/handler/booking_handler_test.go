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
	"github.com/uzima-retreat/booking-service/internal/dto"
	"github.com/uzima-retreat/booking-service/internal/models"
	"github.com/uzima-retreat/booking-service/internal/service"
	"github.com/uzima-retreat/booking-service/pkg/validator"
)

// --- Mock BookingService ---

type mockBookingService struct {
	createFn     func(ctx context.Context, retreatID uint, input service.CreateBookingInput) (*models.Booking, error)
	getFn        func(ctx context.Context, id uint) (*models.Booking, error)
	listFn       func(ctx context.Context, retreatID *uint, status *models.BookingStatus) ([]models.Booking, error)
	approveFn    func(ctx context.Context, id uint) (*models.Booking, error)
	paymentFn    func(ctx context.Context, id uint, status models.PaymentStatus) (*models.Booking, error)
	cancelFn     func(ctx context.Context, id uint) (*models.Booking, error)
	rescheduleFn func(ctx context.Context, id, newRetreatID uint, statusOverride *models.BookingStatus) (*models.Booking, error)
}

func (m *mockBookingService) CreateBooking(ctx context.Context, retreatID uint, input service.CreateBookingInput) (*models.Booking, error) {
	return m.createFn(ctx, retreatID, input)
}
func (m *mockBookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingService) ListBookings(ctx context.Context, retreatID *uint, status *models.BookingStatus) ([]models.Booking, error) {
	return m.listFn(ctx, retreatID, status)
}
func (m *mockBookingService) ApproveBooking(ctx context.Context, id uint) (*models.Booking, error) {
	return m.approveFn(ctx, id)
}
func (m *mockBookingService) SetPaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) (*models.Booking, error) {
	return m.paymentFn(ctx, id, status)
}
func (m *mockBookingService) CancelBooking(ctx context.Context, id uint) (*models.Booking, error) {
	return m.cancelFn(ctx, id)
}
func (m *mockBookingService) RescheduleBooking(ctx context.Context, id, newRetreatID uint, statusOverride *models.BookingStatus) (*models.Booking, error) {
	return m.rescheduleFn(ctx, id, newRetreatID, statusOverride)
}

// --- Mock LookupService ---

type mockLookupService struct {
	lookupFn func(ctx context.Context, params service.LookupParams) (*models.Booking, error)
}

func (m *mockLookupService) Lookup(ctx context.Context, params service.LookupParams) (*models.Booking, error) {
	return m.lookupFn(ctx, params)
}

// --- Mock RosterService ---

type mockRosterService struct {
	rosterFn func(ctx context.Context, retreatID uint, filter service.RosterFilter) (*service.Roster, error)
}

func (m *mockRosterService) Roster(ctx context.Context, retreatID uint, filter service.RosterFilter) (*service.Roster, error) {
	return m.rosterFn(ctx, retreatID, filter)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	return e
}

// --- Tests ---

func TestCreateBooking_Handler_Success(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, retreatID uint, input service.CreateBookingInput) (*models.Booking, error) {
			return &models.Booking{
				ID:            1,
				RetreatID:     retreatID,
				RetreatTitle:  "Silent Week",
				FullName:      input.FullName,
				Email:         input.Email,
				Phone:         input.Phone,
				Status:        models.StatusPending,
				PaymentStatus: models.PaymentPending,
				CreatedAt:     time.Now(),
			}, nil
		},
	}

	e := newTestEcho()
	body := `{"full_name":"Amina Hassan","email":"amina@example.com","phone":"+255 700 000 000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/retreats/1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc, nil, nil)
	err := h.CreateBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(1), resp.ID)
	assert.Equal(t, models.StatusPending, resp.Status)
	assert.Equal(t, "Amina Hassan", resp.FullName)
	assert.Nil(t, resp.TicketCode)
}

func TestCreateBooking_Handler_MissingEmail(t *testing.T) {
	e := newTestEcho()
	body := `{"full_name":"Amina Hassan","phone":"+255700000000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/retreats/1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(nil, nil, nil)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateBooking_Handler_IncompleteFamilyMember(t *testing.T) {
	e := newTestEcho()
	body := `{"full_name":"Amina Hassan","email":"amina@example.com","phone":"+255700000000","family_members":[{"name":"Juma Hassan"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/retreats/1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(nil, nil, nil)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateBooking_Handler_RetreatNotFound(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, retreatID uint, input service.CreateBookingInput) (*models.Booking, error) {
			return nil, service.ErrRetreatNotFound
		},
	}

	e := newTestEcho()
	body := `{"full_name":"Amina Hassan","email":"amina@example.com","phone":"+255700000000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/retreats/999/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("999")

	h := NewBookingHandler(svc, nil, nil)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestApproveBooking_Handler_Success(t *testing.T) {
	code := "UZR-AAAA1111"
	svc := &mockBookingService{
		approveFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, Status: models.StatusApproved, TicketCode: &code}, nil
		},
	}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/1/approve", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc, nil, nil)
	err := h.ApproveBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusApproved, resp.Status)
	require.NotNil(t, resp.TicketCode)
	assert.Equal(t, code, *resp.TicketCode)
}

func TestApproveBooking_Handler_AlreadyApproved(t *testing.T) {
	svc := &mockBookingService{
		approveFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return nil, service.ErrAlreadyApproved
		},
	}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/1/approve", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc, nil, nil)
	err := h.ApproveBooking(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestSetPaymentStatus_Handler_RejectsUnknownValue(t *testing.T) {
	e := newTestEcho()
	body := `{"status":"refunded"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/1/payment", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(nil, nil, nil)
	err := h.SetPaymentStatus(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCancelBooking_Handler_Conflict(t *testing.T) {
	svc := &mockBookingService{
		cancelFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return nil, service.ErrAlreadyCancelled
		},
	}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/1/cancel", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc, nil, nil)
	err := h.CancelBooking(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestRescheduleBooking_Handler_Success(t *testing.T) {
	var capturedOverride *models.BookingStatus
	svc := &mockBookingService{
		rescheduleFn: func(ctx context.Context, id, newRetreatID uint, statusOverride *models.BookingStatus) (*models.Booking, error) {
			capturedOverride = statusOverride
			return &models.Booking{ID: id, RetreatID: newRetreatID, Status: models.StatusRescheduled}, nil
		},
	}

	e := newTestEcho()
	body := `{"retreat_id":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/1/reschedule", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc, nil, nil)
	err := h.RescheduleBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, capturedOverride)

	var resp dto.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusRescheduled, resp.Status)
	assert.Equal(t, uint(2), resp.RetreatID)
}

func TestLookupBooking_Handler_MissingParams(t *testing.T) {
	lookupSvc := &mockLookupService{
		lookupFn: func(ctx context.Context, params service.LookupParams) (*models.Booking, error) {
			return nil, service.ErrLookupParams
		},
	}

	e := newTestEcho()
	body := `{"full_name":"Amina Hassan"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/lookup", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewBookingHandler(nil, lookupSvc, nil)
	err := h.LookupBooking(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestLookupBooking_Handler_ByNamePhone(t *testing.T) {
	lookupSvc := &mockLookupService{
		lookupFn: func(ctx context.Context, params service.LookupParams) (*models.Booking, error) {
			assert.Equal(t, "Amina Hassan", params.FullName)
			assert.Equal(t, "+255700000000", params.Phone)
			return &models.Booking{ID: 5, FullName: params.FullName}, nil
		},
	}

	e := newTestEcho()
	body := `{"full_name":"Amina Hassan","phone":"+255700000000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/lookup", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewBookingHandler(nil, lookupSvc, nil)
	err := h.LookupBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetRoster_Handler_Success(t *testing.T) {
	rosterSvc := &mockRosterService{
		rosterFn: func(ctx context.Context, retreatID uint, filter service.RosterFilter) (*service.Roster, error) {
			assert.Equal(t, "amina", filter.Search)
			assert.Equal(t, "approved", filter.Status)
			return &service.Roster{
				Bookings: []models.Booking{{ID: 1, FullName: "Amina Hassan", Status: models.StatusApproved}},
				Stats:    service.RosterStats{Total: 3, Approved: 1, Pending: 2},
			}, nil
		},
	}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/retreats/1/roster?search=amina&status=approved", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(nil, nil, rosterSvc)
	err := h.GetRoster(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Bookings []dto.BookingResponse `json:"bookings"`
		Stats    service.RosterStats   `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Bookings, 1)
	assert.Equal(t, 3, resp.Stats.Total)
}

func TestListBookings_Handler_InvalidStatus(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=bogus", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewBookingHandler(nil, nil, nil)
	err := h.ListBookings(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}
