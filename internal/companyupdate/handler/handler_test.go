package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/company_insights/internal/auth"
	companyModel "github.com/festy23/company_insights/internal/company/model"
	"github.com/festy23/company_insights/internal/companyupdate/model"
	"github.com/festy23/company_insights/internal/companyupdate/service"
	"github.com/festy23/company_insights/internal/dispatch"
	"github.com/festy23/company_insights/internal/middleware"
	"github.com/festy23/company_insights/internal/response"
	"github.com/festy23/company_insights/internal/workflow"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) TriggerRefresh(ctx context.Context, slug, contextText string, adminID int64) (*companyModel.Company, error) {
	args := m.Called(ctx, slug, contextText, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*companyModel.Company), args.Error(1)
}

func (m *mockService) RunRefresh(ctx context.Context, companyID int64, companyName string, requesterID int64, contextText string) error {
	return m.Called(ctx, companyID, companyName, requesterID, contextText).Error(0)
}

func (m *mockService) Approve(ctx context.Context, updateID, reviewerID int64) (*model.CompanyUpdate, error) {
	args := m.Called(ctx, updateID, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CompanyUpdate), args.Error(1)
}

func (m *mockService) Reject(ctx context.Context, updateID, reviewerID int64) (*model.CompanyUpdate, error) {
	args := m.Called(ctx, updateID, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CompanyUpdate), args.Error(1)
}

func (m *mockService) Get(ctx context.Context, updateID int64) (*model.CompanyUpdate, error) {
	args := m.Called(ctx, updateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CompanyUpdate), args.Error(1)
}

func (m *mockService) List(ctx context.Context, status string) ([]model.CompanyUpdate, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CompanyUpdate), args.Error(1)
}

var _ service.Service = (*mockService)(nil)

func setupRouter(svc service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(svc, zap.NewNop().Sugar())
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextKeyIdentity, auth.Identity{UserID: 1, IsAdmin: true})
		c.Next()
	})
	r.POST("/admin/companies/:slug/refresh", h.TriggerRefresh)
	r.GET("/admin/company-updates", h.List)
	r.POST("/admin/company-updates/:updateId/approve", h.Approve)
	r.POST("/admin/company-updates/:updateId/reject", h.Reject)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandler_TriggerRefresh(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		svc := new(mockService)
		svc.On("TriggerRefresh", mock.Anything, "acme-corp", "annual report", int64(1)).
			Return(&companyModel.Company{ID: 4, Slug: "acme-corp"}, nil)

		w := do(setupRouter(svc), http.MethodPost, "/admin/companies/acme-corp/refresh", `{"context":"annual report"}`)

		assert.Equal(t, http.StatusAccepted, w.Code)
		var resp model.RefreshResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, model.RefreshResponse{Status: "accepted", CompanyID: 4, Slug: "acme-corp"}, resp)
		svc.AssertExpectations(t)
	})

	t.Run("missing context", func(t *testing.T) {
		svc := new(mockService)
		svc.On("TriggerRefresh", mock.Anything, "acme-corp", "", int64(1)).
			Return(nil, &workflow.ValidationError{Field: "context", Message: "is required"})

		w := do(setupRouter(svc), http.MethodPost, "/admin/companies/acme-corp/refresh", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "context: is required", decodeError(t, w).Error.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := new(mockService)

		w := do(setupRouter(svc), http.MethodPost, "/admin/companies/acme-corp/refresh", `{"context":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "TriggerRefresh", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown company", func(t *testing.T) {
		svc := new(mockService)
		svc.On("TriggerRefresh", mock.Anything, "nope", "text", int64(1)).
			Return(nil, companyModel.ErrCompanyNotFound)

		w := do(setupRouter(svc), http.MethodPost, "/admin/companies/nope/refresh", `{"context":"text"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, response.CodeNotFound, decodeError(t, w).Error.Code)
	})

	t.Run("workers saturated", func(t *testing.T) {
		svc := new(mockService)
		svc.On("TriggerRefresh", mock.Anything, "acme-corp", "text", int64(1)).
			Return(nil, fmt.Errorf("schedule refresh: %w", dispatch.ErrQueueFull))

		w := do(setupRouter(svc), http.MethodPost, "/admin/companies/acme-corp/refresh", `{"context":"text"}`)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, response.CodeUnavailable, decodeError(t, w).Error.Code)
	})
}

func TestHandler_Approve(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantCur    string
	}{
		{name: "approved", wantStatus: http.StatusOK},
		{
			name:       "not found",
			err:        model.ErrUpdateNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   response.CodeNotFound,
		},
		{
			name:       "already reviewed",
			err:        model.NewConflict(3, model.StatusRejected),
			wantStatus: http.StatusConflict,
			wantCode:   response.CodeConflict,
			wantCur:    "rejected",
		},
		{
			name:       "merge failed",
			err:        workflow.Persistence("apply company patch", errors.New("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   response.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			if tt.err != nil {
				svc.On("Approve", mock.Anything, int64(3), int64(1)).Return(nil, tt.err)
			} else {
				svc.On("Approve", mock.Anything, int64(3), int64(1)).
					Return(&model.CompanyUpdate{ID: 3, Status: model.StatusApproved}, nil)
			}

			w := do(setupRouter(svc), http.MethodPost, "/admin/company-updates/3/approve", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.err == nil {
				var resp model.UpdateResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, model.StatusApproved, resp.Update.Status)
				return
			}
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantCur, resp.Error.CurrentStatus)
			assert.False(t, strings.Contains(resp.Error.Message, "disk full"), "internal details stay in logs")
		})
	}
}

func TestHandler_Reject(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Reject", mock.Anything, int64(3), int64(1)).
			Return(&model.CompanyUpdate{ID: 3, Status: model.StatusRejected}, nil)

		w := do(setupRouter(svc), http.MethodPost, "/admin/company-updates/3/reject", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("conflict", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Reject", mock.Anything, int64(3), int64(1)).
			Return(nil, model.NewConflict(3, model.StatusApproved))

		w := do(setupRouter(svc), http.MethodPost, "/admin/company-updates/3/reject", "")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "approved", decodeError(t, w).Error.CurrentStatus)
	})

	t.Run("bad id", func(t *testing.T) {
		svc := new(mockService)

		w := do(setupRouter(svc), http.MethodPost, "/admin/company-updates/abc/reject", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Reject", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandler_List(t *testing.T) {
	t.Run("filtered", func(t *testing.T) {
		svc := new(mockService)
		svc.On("List", mock.Anything, "pending_review").
			Return([]model.CompanyUpdate{{ID: 2, Status: model.StatusPendingReview}}, nil)

		w := do(setupRouter(svc), http.MethodGet, "/admin/company-updates?status=pending_review", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var resp model.ListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Updates, 1)
		assert.Equal(t, int64(2), resp.Updates[0].ID)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := new(mockService)
		svc.On("List", mock.Anything, "bogus").
			Return(nil, &workflow.ValidationError{Field: "status", Message: "unknown status bogus"})

		w := do(setupRouter(svc), http.MethodGet, "/admin/company-updates?status=bogus", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
