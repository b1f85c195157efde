package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/pkg/logger"
)

type CheckoutHandler struct {
	checkout CheckoutService
	logger   logger.Logger
}

func NewCheckoutHandler(checkout CheckoutService, logger logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

// quote
//
//	@Summary		Сводка заказа
//	@Description	Позиции корзины, доставка, налог и итог
//	@Tags			checkout
//	@Produce		json
//	@Success		200	{object}	CartResponse
//	@Router			/checkout [get]
func (c *CheckoutHandler) quote(w http.ResponseWriter, r *http.Request) {
	view, err := c.checkout.Quote(r.Context(), SessionID(r.Context()))
	if err != nil {
		respondError(c.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(view))
}

// placeOrder
//
//	@Summary		Оформить заказ
//	@Description	Требует входа. Цены пересчитываются по каталогу, после успеха корзина очищается
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CheckoutRequest	true	"Адрес доставки"
//	@Success		201		{object}	OrderResponse
//	@Failure		400		{object}	ErrorResponse	"Пустая корзина или незаполненные поля"
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Товар больше не продаётся"
//	@Failure		429		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/checkout [post]
func (c *CheckoutHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(c.logger, w, r, err)
		return
	}

	order, err := c.checkout.PlaceOrder(r.Context(), req.toPlaceOrderReq(IdentityFrom(r.Context()), SessionID(r.Context())))
	if err != nil {
		respondError(c.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toOrderResponse(order))
}
