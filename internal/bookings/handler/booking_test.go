package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	apperrors "rently/pkg/errors"
	"rently/pkg/logger"
	"rently/pkg/model"
)

type mockBookingService struct {
	createFunc        func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	getByIDFunc       func(ctx context.Context, id string) (*model.Booking, error)
	getByUserFunc     func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error)
	getByItemFunc     func(ctx context.Context, itemID string, limit int, offset int64) ([]*model.Booking, int64, error)
	getByStatusFunc   func(ctx context.Context, status string, limit int, offset int64) ([]*model.Booking, int64, error)
	findConflictsFunc func(ctx context.Context, itemID string, start, end time.Time) ([]*model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &model.Booking{}, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Booking{}, nil
}

func (m *mockBookingService) GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.getByUserFunc != nil {
		return m.getByUserFunc(ctx, userID, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) GetByItem(ctx context.Context, itemID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.getByItemFunc != nil {
		return m.getByItemFunc(ctx, itemID, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) GetByStatus(ctx context.Context, status string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.getByStatusFunc != nil {
		return m.getByStatusFunc(ctx, status, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) FindConflicts(ctx context.Context, itemID string, start, end time.Time) ([]*model.Booking, error) {
	if m.findConflictsFunc != nil {
		return m.findConflictsFunc(ctx, itemID, start, end)
	}
	return []*model.Booking{}, nil
}

func testRouter(svc *mockBookingService) *httprouter.Router {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	router := httprouter.New()
	NewBookingHandler(svc, log).RegisterRoutes(router)
	return router
}

func TestCreateHandler_Success(t *testing.T) {
	var received *model.BookingRequest
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
			received = req
			return &model.Booking{
				ID:         "f47ac10b-58cc-4372-a567-0e02b2c3d479",
				UserID:     req.UserID,
				ItemID:     req.ItemID,
				StartDate:  req.StartDate,
				EndDate:    req.EndDate,
				TotalPrice: 150,
				Status:     model.StatusConfirmed,
			}, nil
		},
	}
	router := testRouter(svc)

	body, _ := json.Marshal(map[string]any{
		"user_id":    "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		"item_id":    "550e8400-e29b-41d4-a716-446655440000",
		"start_date": "2026-03-12T00:00:00Z",
		"end_date":   "2026-03-14T00:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if received == nil || received.ItemID != "550e8400-e29b-41d4-a716-446655440000" {
		t.Errorf("unexpected request passed to service: %+v", received)
	}

	var resp struct {
		Data model.Booking `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Status != model.StatusConfirmed || resp.Data.TotalPrice != 150 {
		t.Errorf("unexpected booking in response: %+v", resp.Data)
	}
}

func TestCreateHandler_InvalidBody(t *testing.T) {
	router := testRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestCreateHandler_ConflictMapsTo409(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
			return nil, apperrors.Conflict("Booking dates conflict with an existing booking")
		},
	}
	router := testRouter(svc)

	body, _ := json.Marshal(map[string]any{
		"user_id":    "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		"item_id":    "550e8400-e29b-41d4-a716-446655440000",
		"start_date": "2026-03-12T00:00:00Z",
		"end_date":   "2026-03-14T00:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
}

func TestGetByIDHandler(t *testing.T) {
	svc := &mockBookingService{
		getByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			if id == "f47ac10b-58cc-4372-a567-0e02b2c3d479" {
				return &model.Booking{ID: id, Status: model.StatusConfirmed}, nil
			}
			return nil, apperrors.NotFoundWithID("Booking", id)
		},
	}
	router := testRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/f47ac10b-58cc-4372-a567-0e02b2c3d479", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/7c9e6679-7425-40de-944b-e07fc1f90ae7", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestListHandler_RequiresSelector(t *testing.T) {
	router := testRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestListHandler_ByUser(t *testing.T) {
	svc := &mockBookingService{
		getByUserFunc: func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error) {
			return []*model.Booking{{ID: "f47ac10b-58cc-4372-a567-0e02b2c3d479", UserID: userID}}, 1, nil
		},
	}
	router := testRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?user_id=7c9e6679-7425-40de-944b-e07fc1f90ae7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data       []model.Booking `json:"data"`
		TotalCount int64           `json:"total_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.TotalCount != 1 {
		t.Errorf("unexpected list response: %+v", resp)
	}
}

func TestConflictsHandler(t *testing.T) {
	var gotStart, gotEnd time.Time
	svc := &mockBookingService{
		findConflictsFunc: func(ctx context.Context, itemID string, start, end time.Time) ([]*model.Booking, error) {
			gotStart, gotEnd = start, end
			return []*model.Booking{{ID: "f47ac10b-58cc-4372-a567-0e02b2c3d479", ItemID: itemID}}, nil
		},
	}
	router := testRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/bookings/conflicts?item_id=550e8400-e29b-41d4-a716-446655440000&start_date=2026-03-12&end_date=2026-03-14", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !gotStart.Equal(time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)) ||
		!gotEnd.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected parsed dates: %v %v", gotStart, gotEnd)
	}
}

func TestConflictsHandler_MissingParams(t *testing.T) {
	router := testRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/conflicts?item_id=550e8400-e29b-41d4-a716-446655440000", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestConflictsHandler_BadDate(t *testing.T) {
	router := testRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/bookings/conflicts?item_id=550e8400-e29b-41d4-a716-446655440000&start_date=next-tuesday&end_date=2026-03-14", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
