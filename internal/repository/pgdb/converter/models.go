package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID                 string     `db:"id"`
	Name               string     `db:"name"`
	Price              int64      `db:"price"`
	Category           string     `db:"category"`
	Image              *string    `db:"image"`
	Description        *string    `db:"description"`
	Featured           bool       `db:"featured"`
	SalePrice          *int64     `db:"sale_price"`
	DiscountPercentage *int32     `db:"discount_percentage"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          *time.Time `db:"updated_at"`
}

// OrderModel представляет запись таблицы orders в PostgreSQL.
type OrderModel struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Email        string    `db:"email"`
	FullName     string    `db:"full_name"`
	Phone        *string   `db:"phone"`
	AddressLine1 string    `db:"address_line1"`
	AddressLine2 *string   `db:"address_line2"`
	City         string    `db:"city"`
	PostalCode   string    `db:"postal_code"`
	Country      string    `db:"country"`
	Items        []byte    `db:"items"` // JSONB []OrderItemModel
	Subtotal     int64     `db:"subtotal"`
	ShippingCost int64     `db:"shipping_cost"`
	TaxAmount    int64     `db:"tax_amount"`
	TotalAmount  int64     `db:"total_amount"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
}

// OrderItemModel описывает позицию заказа в колонке items.
type OrderItemModel struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     int64   `json:"price"`
	SalePrice *int64  `json:"salePrice,omitempty"`
	Category  string  `json:"category"`
	Image     *string `json:"image"`
	Quantity  int     `json:"quantity"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID string     `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
