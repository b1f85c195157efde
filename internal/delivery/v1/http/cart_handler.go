package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cart   CartService
	stream CartStream
	logger logger.Logger
}

func NewCartHandler(cart CartService, stream CartStream, logger logger.Logger) *CartHandler {
	return &CartHandler{cart: cart, stream: stream, logger: logger}
}

// getCart
//
//	@Summary	Корзина текущей сессии
//	@Tags		cart
//	@Produce	json
//	@Success	200	{object}	CartResponse
//	@Router		/cart [get]
func (c *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	view, err := c.cart.Get(r.Context(), SessionID(r.Context()))
	if err != nil {
		respondError(c.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(view))
}

// addItem
//
//	@Summary		Добавить товар в корзину
//	@Description	Если товар уже в корзине, количество увеличивается
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AddItemRequest	true	"Товар и количество (по умолчанию 1)"
//	@Success		200		{object}	CartResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/cart/items [post]
func (c *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(c.logger, w, r, err)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := c.cart.AddItem(r.Context(), SessionID(r.Context()), req.ProductID, quantity)
	if err != nil {
		respondError(c.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(view))
}

// updateQuantity
//
//	@Summary		Изменить количество
//	@Description	Количество меньше 1 удаляет позицию
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		string					true	"ID товара"
//	@Param			body		body		UpdateQuantityRequest	true	"Новое количество"
//	@Success		200			{object}	CartResponse
//	@Router			/cart/items/{productID} [patch]
func (c *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(c.logger, w, r, err)
		return
	}

	view, err := c.cart.UpdateQuantity(r.Context(), SessionID(r.Context()), chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		respondError(c.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(view))
}

// removeItem
//
//	@Summary	Удалить позицию
//	@Tags		cart
//	@Produce	json
//	@Param		productID	path		string	true	"ID товара"
//	@Success	200			{object}	CartResponse
//	@Router		/cart/items/{productID} [delete]
func (c *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	view, err := c.cart.RemoveItem(r.Context(), SessionID(r.Context()), chi.URLParam(r, "productID"))
	if err != nil {
		respondError(c.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(view))
}

// clearCart
//
//	@Summary	Очистить корзину
//	@Tags		cart
//	@Success	204
//	@Router		/cart [delete]
func (c *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := c.cart.Clear(r.Context(), SessionID(r.Context())); err != nil {
		respondError(c.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// streamCart
//
//	@Summary		Поток количества товаров
//	@Description	Websocket. Сразу после подключения и после каждого изменения корзины приходит {"totalQuantity": n}
//	@Tags			cart
//	@Router			/cart/ws [get]
func (c *CartHandler) streamCart(w http.ResponseWriter, r *http.Request) {
	sessionID := SessionID(r.Context())

	if _, err := c.cart.Get(r.Context(), sessionID); err != nil {
		respondError(c.logger, w, r, err)
		return
	}

	current := func() (int, error) {
		view, err := c.cart.Get(r.Context(), sessionID)
		if err != nil {
			return 0, err
		}
		return view.TotalQuantity, nil
	}

	// после Upgrade ответ уже отправлен, ошибку можно только залогировать
	if err := c.stream.Serve(w, r, sessionID, current); err != nil {
		c.logger.Warnf("cart stream closed. session: %s, error: %v", sessionID, err)
	}
}
