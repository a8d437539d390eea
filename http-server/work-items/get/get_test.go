package get

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"garment-erp/internal/storage"
)

type MockWorkItems struct {
	mock.Mock
}

func (m *MockWorkItems) GetWorkItems(ctx context.Context, filter storage.WorkItemFilter) ([]storage.WorkItem, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]storage.WorkItem), args.Error(1)
}

func get(m *MockWorkItems, url string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	GetWorkItems(slog.New(slog.NewTextHandler(io.Discard, nil)), m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, url, nil))
	return rr
}

func TestGetWorkItems_Filter(t *testing.T) {
	m := new(MockWorkItems)
	m.On("GetWorkItems", mock.Anything, mock.MatchedBy(func(f storage.WorkItemFilter) bool {
		return f.LotNumber == "LOT-42" && f.Status == "ready" && f.OperatorID != nil && *f.OperatorID == 3
	})).Return([]storage.WorkItem{{ID: "LOT-42-B001-op1", Status: "ready"}}, nil)

	rr := get(m, "/api/work-items?lot=LOT-42&status=ready&operator=3")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "LOT-42-B001-op1")
	m.AssertExpectations(t)
}

func TestGetWorkItems_CompletedStatus(t *testing.T) {
	m := new(MockWorkItems)
	m.On("GetWorkItems", mock.Anything, storage.WorkItemFilter{Status: "completed"}).Return([]storage.WorkItem{}, nil)

	assert.Equal(t, http.StatusOK, get(m, "/api/work-items?status=completed").Code)
}

func TestGetWorkItems_BadQuery(t *testing.T) {
	m := new(MockWorkItems)

	assert.Equal(t, http.StatusBadRequest, get(m, "/api/work-items?status=lost").Code)
	assert.Equal(t, http.StatusBadRequest, get(m, "/api/work-items?operator=abc").Code)
	m.AssertNotCalled(t, "GetWorkItems", mock.Anything, mock.Anything)
}
