package http

import (
	"net/http"
	"strconv"

	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	manager ProductAdmin
	logger  logger.Logger
}

func NewAdminHandler(manager ProductAdmin, logger logger.Logger) *AdminHandler {
	return &AdminHandler{manager: manager, logger: logger}
}

// listProducts
//
//	@Summary		Товары для панели администратора
//	@Description	Перечитывает каталог и возвращает свежий список
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		ProductResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Router			/admin/products [get]
func (a *AdminHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	if err := a.manager.Load(r.Context()); err != nil {
		respondError(a.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponses(a.manager.Products()))
}

// createProduct
//
//	@Summary	Создать товар
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		CreateProductRequest	true	"Товар"
//	@Success	201		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure	502		{object}	ErrorResponse
//	@Router		/admin/products [post]
func (a *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(a.logger, w, r, err)
		return
	}

	product, err := a.manager.Create(r.Context(), req.toUsecase())
	if err != nil {
		respondError(a.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(*product))
}

// updateProduct
//
//	@Summary	Изменить товар
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"ID товара"
//	@Param		body	body		UpdateProductRequest	true	"Изменяемые поля"
//	@Success	200		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/admin/products/{id} [patch]
func (a *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(a.logger, w, r, err)
		return
	}

	product, err := a.manager.Update(r.Context(), chi.URLParam(r, "id"), req.toUsecase())
	if err != nil {
		respondError(a.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(*product))
}

// deleteProduct
//
//	@Summary		Удалить товар
//	@Description	Без confirm=true товар не удаляется
//	@Tags			admin
//	@Security		BearerAuth
//	@Param			id		path	string	true	"ID товара"
//	@Param			confirm	query	bool	true	"Подтверждение удаления"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse	"Удаление не подтверждено"
//	@Failure		404	{object}	ErrorResponse
//	@Router			/admin/products/{id} [delete]
func (a *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	id := chi.URLParam(r, "id")

	if err := a.manager.Delete(r.Context(), id, confirmed); err != nil {
		respondError(a.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// uploadImage
//
//	@Summary		Загрузить изображение товара
//	@Description	Сохраняет оригинал и уменьшенный вариант, ссылка на вариант записывается в товар
//	@Tags			admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"ID товара"
//	@Param			image	formData	file	true	"Изображение (jpeg, png, webp)"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		415		{object}	ErrorResponse
//	@Router			/admin/products/{id}/image [post]
func (a *AdminHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageRequest)

	if err := ensureMultipartForm(r); err != nil {
		respondError(a.logger, w, r, err)
		return
	}

	image, err := readImage(r)
	if err != nil {
		respondError(a.logger, w, r, err)
		return
	}

	product, err := a.manager.AttachImage(r.Context(), chi.URLParam(r, "id"), image)
	if err != nil {
		respondError(a.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(*product))
}
