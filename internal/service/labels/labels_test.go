package labels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"garment-erp/internal/storage"
)

type MockLabelStorage struct {
	mock.Mock
}

func (m *MockLabelStorage) GetBundlesByLot(ctx context.Context, lotNumber string) ([]storage.Bundle, error) {
	args := m.Called(ctx, lotNumber)
	return args.Get(0).([]storage.Bundle), args.Error(1)
}

func bundles(n int) []storage.Bundle {
	out := make([]storage.Bundle, n)
	for i := range out {
		out[i] = storage.Bundle{
			BundleID:      fmt.Sprintf("LOT-42-B%03d", i+1),
			LotNumber:     "LOT-42",
			RollNumber:    1,
			ArticleNumber: "8085",
			Color:         "Blue-1",
			Size:          "M",
			Pieces:        20,
		}
	}
	return out
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, bundles(30)))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestRender_NoBundles(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Render(&buf, nil), ErrNoBundles)
	assert.Zero(t, buf.Len())
}

func TestTicketFor(t *testing.T) {
	data, err := json.Marshal(TicketFor(bundles(1)[0]))
	require.NoError(t, err)

	assert.JSONEq(t, `{"bundle_id":"LOT-42-B001","lot_number":"LOT-42","article_number":"8085",
		"color":"Blue-1","size":"M","pieces":20,"roll_number":1}`, string(data))
}

func TestService_BundleLabels(t *testing.T) {
	st := new(MockLabelStorage)
	st.On("GetBundlesByLot", mock.Anything, "LOT-42").Return(bundles(2), nil)

	out, err := NewService(st).BundleLabels(context.Background(), "LOT-42")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	st.AssertExpectations(t)
}

func TestService_BundleLabels_Empty(t *testing.T) {
	st := new(MockLabelStorage)
	st.On("GetBundlesByLot", mock.Anything, "LOT-9").Return([]storage.Bundle{}, nil)

	_, err := NewService(st).BundleLabels(context.Background(), "LOT-9")
	assert.ErrorIs(t, err, ErrNoBundles)
}
