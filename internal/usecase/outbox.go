package usecase

import (
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/money"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
	Failed     OutboxStatus = "failed" // брокер отверг сообщение, повтор не поможет
)

type OutboxEventType string

const OrderPlaced OutboxEventType = "order.placed"

// OutboxEvent — событие, записанное в одной транзакции с заказом и отправляемое в Kafka воркером.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	AggregateID string // id заказа, ключ сообщения
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// NewOrderPlacedEvent формирует событие order.placed с полезной нагрузкой google.protobuf.Struct.
func NewOrderPlacedEvent(order *domain.Order) (*OutboxEvent, error) {
	eventID := uuid.NewString()

	payload, err := structpb.NewStruct(map[string]any{
		"event_id":   eventID,
		"order_id":   order.ID,
		"user_id":    order.UserID,
		"email":      order.Email,
		"items":      float64(len(order.Items)),
		"total":      money.Format(order.Totals.Total),
		"created_at": order.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	data, err := proto.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:     eventID,
		EventType:   OrderPlaced,
		AggregateID: order.ID,
		Payload:     data,
		Status:      Pending,
		CreatedAt:   time.Now(),
	}, nil
}
