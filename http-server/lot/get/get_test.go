package get

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"garment-erp/internal/storage"
)

type MockLotProvider struct {
	mock.Mock
}

func (m *MockLotProvider) GetLot(ctx context.Context, lotNumber string) (*storage.Lot, error) {
	args := m.Called(ctx, lotNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Lot), args.Error(1)
}

func (m *MockLotProvider) GetLots(ctx context.Context) ([]storage.Lot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]storage.Lot), args.Error(1)
}

func router(m *MockLotProvider) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Get("/api/lots", GetLots(log, m))
	r.Get("/api/lots/{lotNumber}", GetLot(log, m))
	return r
}

func TestGetLot(t *testing.T) {
	m := new(MockLotProvider)
	m.On("GetLot", mock.Anything, "LOT-42").Return(&storage.Lot{
		LotNumber: "LOT-42",
		Rolls:     []storage.Roll{{Pieces: 40}, {Pieces: 12}},
	}, nil)

	rr := httptest.NewRecorder()
	router(m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/lots/LOT-42", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"lot_number":"LOT-42"`)
	assert.Contains(t, rr.Body.String(), `"total_pieces":52`)
}

func TestGetLot_NotFound(t *testing.T) {
	m := new(MockLotProvider)
	m.On("GetLot", mock.Anything, "NOPE").Return(nil, storage.ErrLotNotFound)

	rr := httptest.NewRecorder()
	router(m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/lots/NOPE", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetLots(t *testing.T) {
	m := new(MockLotProvider)
	m.On("GetLots", mock.Anything).Return([]storage.Lot{{LotNumber: "LOT-42"}, {LotNumber: "LOT-43"}}, nil)

	rr := httptest.NewRecorder()
	router(m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/lots", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "LOT-43")
}
