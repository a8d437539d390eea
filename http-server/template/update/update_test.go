package update

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"garment-erp/internal/storage"
)

type MockTemplateUpdateProvider struct {
	mock.Mock
}

func (m *MockTemplateUpdateProvider) UpdateTemplate(ctx context.Context, id string, t storage.Template) error {
	return m.Called(ctx, id, t).Error(0)
}

const body = `{"id": "polo-basic", "name": "Polo v2", "article_type": "universal",
	"operations": [{"id": "op1", "sequence": 1, "name_en": "Shoulder join"}]}`

func put(m *MockTemplateUpdateProvider, url, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Put("/api/admin/templates/{id}", UpdateTemplate(slog.Default(), m))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, url, strings.NewReader(body)))
	return rr
}

func TestUpdateTemplate(t *testing.T) {
	m := new(MockTemplateUpdateProvider)
	m.On("UpdateTemplate", mock.Anything, "polo-basic", mock.MatchedBy(func(tpl storage.Template) bool {
		return tpl.Name == "Polo v2" && tpl.Operations[0].SkillLevel == "medium"
	})).Return(nil)

	rr := put(m, "/api/admin/templates/polo-basic", body)

	assert.Equal(t, http.StatusOK, rr.Code)
	m.AssertExpectations(t)
}

func TestUpdateTemplate_IDMismatch(t *testing.T) {
	m := new(MockTemplateUpdateProvider)

	rr := put(m, "/api/admin/templates/other", body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	m.AssertNotCalled(t, "UpdateTemplate", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateTemplate_NotFound(t *testing.T) {
	m := new(MockTemplateUpdateProvider)
	m.On("UpdateTemplate", mock.Anything, "polo-basic", mock.Anything).Return(storage.ErrTemplateNotFound)

	assert.Equal(t, http.StatusNotFound, put(m, "/api/admin/templates/polo-basic", body).Code)
}
