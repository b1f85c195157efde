package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Успешные изменения каталога журналирует ProductManager, обработчик только отвечает.
func TestAdminHandler_SuccessfulMutationsAreNotLoggedTwice(t *testing.T) {
	var buf bytes.Buffer
	h := NewAdminHandler(&fakeAdmin{}, logger.NewSlogLoggerWithWriter(&buf, slog.LevelDebug))

	r := chi.NewRouter()
	r.Post("/products", h.createProduct)
	r.Delete("/products/{id}", h.deleteProduct)

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":"Tee","price":"10.00","category":"TSHIRTS"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/products/p1?confirm=true", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Empty(t, buf.String())
}
