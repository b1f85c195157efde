package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
)

const (
	maxJSONBody     = 1 << 20
	maxImageRequest = 16 << 20
	maxMemory       = 8 << 20
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// Ошибки валидации, которые отдаются клиенту как 400 с исходным текстом.
var badRequestErrors = []error{
	e.ErrStatusBadRequest,
	e.ErrInvalidJSON,
	e.ErrExpectedMultipart,
	e.ErrMissingFields,
	e.ErrProductNameRequired,
	e.ErrInvalidPrice,
	e.ErrPricePrecision,
	e.ErrSalePriceAbovePrice,
	e.ErrInvalidDiscount,
	e.ErrInvalidCategory,
	e.ErrInvalidQuantity,
	e.ErrAmountTooLarge,
	e.ErrNoImages,
	e.ErrConfirmationRequired,
	e.ErrCartEmpty,
	e.ErrMissingShippingFields,
	e.ErrUnsupportedCountry,
}

func ToHTTPResponse(err error) (int, string) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, detail(err, target)
		}
	}

	switch {
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrAuthRequired):
		return http.StatusUnauthorized, e.ErrAuthRequired.Error()
	case errors.Is(err, e.ErrInvalidToken):
		return http.StatusUnauthorized, e.ErrInvalidToken.Error()
	case errors.Is(err, e.ErrForbidden):
		return http.StatusForbidden, e.ErrForbidden.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrProductUnavailable):
		return http.StatusConflict, e.ErrProductUnavailable.Error()
	case errors.Is(err, e.ErrTooManyRequests):
		return http.StatusTooManyRequests, e.ErrTooManyRequests.Error()
	case errors.Is(err, e.ErrGateway):
		return http.StatusBadGateway, e.ErrGateway.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

// detail возвращает текст ошибки начиная с sentinel: "missing required shipping fields: city".
// Префиксы с именами операций клиенту не отдаются.
func detail(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()); i >= 0 {
		return msg[i:]
	}
	return sentinel.Error()
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrInvalidJSON)
	}

	return nil
}

func ensureMultipartForm(r *http.Request) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return e.Wrap(whereami.WhereAmI(), e.ErrFileTooLarge)
		}
		return e.Wrap(err.Error(), e.ErrExpectedMultipart)
	}
	return nil
}

// readImage читает поле "image" формы. MIME определяется по содержимому, а не по заголовку клиента.
func readImage(r *http.Request) (*usecase.ProductImage, error) {
	src, fh, err := r.FormFile("image")
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrNoImages)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if len(data) == 0 {
		return nil, e.Wrap(fh.Filename, e.ErrNoImages)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename), nil
}

// respondError логирует ошибку по уровню статуса и отдаёт её клиенту.
func respondError(log logger.Logger, w http.ResponseWriter, r *http.Request, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		log.Errorf(err, "%d %s %s", code, r.Method, r.URL.Path)
	} else {
		log.Warnf("%d %s %s: %s", code, r.Method, r.URL.Path, err.Error())
	}
	WriteError(w, err)
}
