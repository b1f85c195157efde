package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/stretchr/testify/assert"
)

func TestToHTTPResponse(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{e.Wrap("op", e.ErrInvalidPrice), http.StatusBadRequest},
		{e.Wrap("op", e.ErrCartEmpty), http.StatusBadRequest},
		{e.Wrap("op", e.ErrConfirmationRequired), http.StatusBadRequest},
		{e.Wrap("op", e.ErrFileTooLarge), http.StatusRequestEntityTooLarge},
		{e.Wrap("op", e.ErrUnsupportedMediaType), http.StatusUnsupportedMediaType},
		{e.Wrap("op", e.ErrAuthRequired), http.StatusUnauthorized},
		{e.Wrap("op", e.ErrInvalidToken), http.StatusUnauthorized},
		{e.Wrap("op", e.ErrForbidden), http.StatusForbidden},
		{e.Wrap("op", e.ErrProductNotFound), http.StatusNotFound},
		{e.Wrap("op", e.ErrProductUnavailable), http.StatusConflict},
		{e.ErrTooManyRequests, http.StatusTooManyRequests},
		{e.Gateway("op", errors.New("dial tcp")), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		code, _ := ToHTTPResponse(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestToHTTPResponse_KeepsValidationDetail(t *testing.T) {
	err := e.Wrap("CheckoutUseCase.PlaceOrder", fmt.Errorf("%w: %s", e.ErrMissingShippingFields, "city, postalCode"))

	code, msg := ToHTTPResponse(err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "missing required shipping fields: city, postalCode", msg)
}

func TestToHTTPResponse_HidesInternalDetail(t *testing.T) {
	_, msg := ToHTTPResponse(e.Gateway("ProductRepo.List", errors.New("password authentication failed")))
	assert.Equal(t, e.ErrGateway.Error(), msg)
}

func TestClientLimiter_ForgetsIdleClients(t *testing.T) {
	l := newClientLimiter(1, 1)
	now := time.Unix(0, 0)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("ip:1"))
	assert.False(t, l.allow("ip:1"))

	now = now.Add(11 * time.Minute)
	assert.True(t, l.allow("ip:1"))
	assert.Len(t, l.clients, 1)
}
