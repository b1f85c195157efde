package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	catalog CatalogService
	logger  logger.Logger
}

func NewProductHandler(catalog CatalogService, logger logger.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, logger: logger}
}

// listProducts
//
//	@Summary		Каталог товаров
//	@Description	Товары выбранной категории в порядке каталога. Без категории или с ALL возвращаются все товары
//	@Tags			products
//	@Produce		json
//	@Param			category	query		string	false	"Категория: ALL, TOPS, SHORTS, TSHIRTS, JACKETS, SETS"
//	@Param			featured	query		bool	false	"Только избранные товары"
//	@Success		200			{object}	ProductListResponse
//	@Failure		400			{object}	ErrorResponse	"Неизвестная категория"
//	@Failure		502			{object}	ErrorResponse	"Каталог недоступен"
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	category := domain.Category(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("category"))))
	if category == "" {
		category = domain.CategoryAll
	}

	featured := false
	if raw := r.URL.Query().Get("featured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(p.logger, w, r, e.Wrap("featured", e.ErrStatusBadRequest))
			return
		}
		featured = v
	}

	products, err := p.catalog.Browse(r.Context(), category, featured)
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, ProductListResponse{
		Category: string(category),
		Products: toProductResponses(products),
	})
}

// getProduct
//
//	@Summary	Товар по id
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"ID товара"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	502	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := p.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(*product))
}
