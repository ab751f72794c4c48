package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "carvalue_backend/internal/feature/auth/domain/entity"
	"carvalue_backend/internal/feature/reports/domain/entity"
	"carvalue_backend/internal/feature/reports/usecase"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockReportsUsecase is a mock implementation of the ReportsUsecase interface.
type mockReportsUsecase struct {
	CreateReportFunc   func(ctx context.Context, userID uint, report *entity.Report) (*entity.Report, error)
	ChangeApprovalFunc func(ctx context.Context, id uint, approved bool) (*entity.Report, error)
	EstimatePriceFunc  func(ctx context.Context, q usecase.EstimateQuery) (*float64, error)
}

func (m *mockReportsUsecase) CreateReport(ctx context.Context, userID uint, report *entity.Report) (*entity.Report, error) {
	if m.CreateReportFunc != nil {
		return m.CreateReportFunc(ctx, userID, report)
	}
	return nil, errors.New("create failed") // Default: failure
}

func (m *mockReportsUsecase) ChangeApproval(ctx context.Context, id uint, approved bool) (*entity.Report, error) {
	if m.ChangeApprovalFunc != nil {
		return m.ChangeApprovalFunc(ctx, id, approved)
	}
	return nil, errors.New("approval failed") // Default: failure
}

func (m *mockReportsUsecase) EstimatePrice(ctx context.Context, q usecase.EstimateQuery) (*float64, error) {
	if m.EstimatePriceFunc != nil {
		return m.EstimatePriceFunc(ctx, q)
	}
	return nil, nil
}

// asUser primes the request context the way the identity middleware does.
func asUser(user *authentity.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("currentUser", user)
		c.Next()
	}
}

func testReport() *entity.Report {
	return &entity.Report{
		ID:       1,
		Make:     "toyota",
		Model:    "corolla",
		Year:     2015,
		Mileage:  50000,
		Lng:      10,
		Lat:      20,
		Price:    15000,
		UserID:   7,
		Approved: false,
	}
}

func TestReportHandler_Create(t *testing.T) {
	user := &authentity.User{ID: 7, Email: "seller@example.com"}

	tests := []struct {
		name           string
		requestBody    gin.H
		mockCreateFunc func(ctx context.Context, userID uint, report *entity.Report) (*entity.Report, error)
		expectedStatus int
	}{
		{
			name: "success: report created",
			requestBody: gin.H{
				"make": "toyota", "model": "corolla", "year": 2015,
				"mileage": 50000, "lng": 10, "lat": 20, "price": 15000,
			},
			mockCreateFunc: func(ctx context.Context, userID uint, report *entity.Report) (*entity.Report, error) {
				report.ID = 1
				report.UserID = userID
				return report, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "failure: missing make",
			requestBody: gin.H{
				"model": "corolla", "year": 2015, "price": 15000,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "failure: year out of range",
			requestBody: gin.H{
				"make": "toyota", "model": "corolla", "year": 1900, "price": 15000,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "failure: negative price",
			requestBody: gin.H{
				"make": "toyota", "model": "corolla", "year": 2015, "price": -1,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "failure: store error",
			requestBody: gin.H{
				"make": "toyota", "model": "corolla", "year": 2015, "price": 15000,
			},
			mockCreateFunc: func(ctx context.Context, userID uint, report *entity.Report) (*entity.Report, error) {
				return nil, errors.New("insert failed")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewReportHandler(&mockReportsUsecase{CreateReportFunc: tt.mockCreateFunc})

			router := gin.New()
			router.POST("/reports", asUser(user), h.Create)

			b, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/reports", bytes.NewBuffer(b))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestReportHandler_Create_ProjectsResponse(t *testing.T) {
	user := &authentity.User{ID: 7, Email: "seller@example.com"}
	var gotUserID uint
	h := NewReportHandler(&mockReportsUsecase{
		CreateReportFunc: func(ctx context.Context, userID uint, report *entity.Report) (*entity.Report, error) {
			gotUserID = userID
			report.ID = 1
			report.UserID = userID
			return report, nil
		},
	})

	router := gin.New()
	router.POST("/reports", asUser(user), h.Create)

	b, _ := json.Marshal(gin.H{
		"make": "toyota", "model": "corolla", "year": 2015,
		"mileage": 50000, "lng": 10, "lat": 20, "price": 0,
	})
	req := httptest.NewRequest(http.MethodPost, "/reports", bytes.NewBuffer(b))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, user.ID, gotUserID, "the report is owned by the authenticated user")

	var body gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "toyota", body["make"])
	assert.Equal(t, float64(0), body["price"], "a free car is a valid report")

	// The owner reference is internal and never exposed.
	assert.NotContains(t, body, "userid")
	assert.NotContains(t, body, "user_id")
}

func TestReportHandler_Approve(t *testing.T) {
	tests := []struct {
		name            string
		reportID        string
		requestBody     gin.H
		mockApproveFunc func(ctx context.Context, id uint, approved bool) (*entity.Report, error)
		expectedStatus  int
	}{
		{
			name:        "success: report approved",
			reportID:    "1",
			requestBody: gin.H{"approved": true},
			mockApproveFunc: func(ctx context.Context, id uint, approved bool) (*entity.Report, error) {
				r := testReport()
				r.Approved = approved
				return r, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			// An explicit false must survive binding; that is why the DTO
			// uses a pointer field.
			name:        "success: approval revoked",
			reportID:    "1",
			requestBody: gin.H{"approved": false},
			mockApproveFunc: func(ctx context.Context, id uint, approved bool) (*entity.Report, error) {
				require.False(t, approved)
				r := testReport()
				r.Approved = approved
				return r, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "failure: non-numeric id",
			reportID:       "abc",
			requestBody:    gin.H{"approved": true},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "failure: missing approved flag",
			reportID:       "1",
			requestBody:    gin.H{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "failure: unknown report",
			reportID:    "999",
			requestBody: gin.H{"approved": true},
			mockApproveFunc: func(ctx context.Context, id uint, approved bool) (*entity.Report, error) {
				return nil, usecase.ErrReportNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "failure: store error",
			reportID:    "1",
			requestBody: gin.H{"approved": true},
			mockApproveFunc: func(ctx context.Context, id uint, approved bool) (*entity.Report, error) {
				return nil, errors.New("update failed")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewReportHandler(&mockReportsUsecase{ChangeApprovalFunc: tt.mockApproveFunc})

			router := gin.New()
			router.PATCH("/reports/:id", h.Approve)

			b, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPatch, "/reports/"+tt.reportID, bytes.NewBuffer(b))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestReportHandler_Estimate(t *testing.T) {
	t.Run("returns the average price", func(t *testing.T) {
		want := 12500.0
		var gotQuery usecase.EstimateQuery
		h := NewReportHandler(&mockReportsUsecase{
			EstimatePriceFunc: func(ctx context.Context, q usecase.EstimateQuery) (*float64, error) {
				gotQuery = q
				return &want, nil
			},
		})

		router := gin.New()
		router.GET("/reports", h.Estimate)

		req := httptest.NewRequest(http.MethodGet,
			"/reports?make=toyota&model=corolla&year=2015&mileage=50000&lng=10&lat=20", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, usecase.EstimateQuery{
			Make: "toyota", Model: "corolla", Year: 2015, Mileage: 50000, Lng: 10, Lat: 20,
		}, gotQuery)

		var body gin.H
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, want, body["price"])
	})

	t.Run("price is null when nothing is comparable", func(t *testing.T) {
		h := NewReportHandler(&mockReportsUsecase{})

		router := gin.New()
		router.GET("/reports", h.Estimate)

		req := httptest.NewRequest(http.MethodGet,
			"/reports?make=toyota&model=corolla&year=2015", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"price": null}`, w.Body.String())
	})

	t.Run("missing make is rejected", func(t *testing.T) {
		h := NewReportHandler(&mockReportsUsecase{})

		router := gin.New()
		router.GET("/reports", h.Estimate)

		req := httptest.NewRequest(http.MethodGet, "/reports?model=corolla&year=2015", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("store error", func(t *testing.T) {
		h := NewReportHandler(&mockReportsUsecase{
			EstimatePriceFunc: func(ctx context.Context, q usecase.EstimateQuery) (*float64, error) {
				return nil, errors.New("query failed")
			},
		})

		router := gin.New()
		router.GET("/reports", h.Estimate)

		req := httptest.NewRequest(http.MethodGet,
			"/reports?make=toyota&model=corolla&year=2015", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
