package converter

import (
	"encoding/json"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// OrderConverter преобразует заказ между domain и моделью PostgreSQL.
type OrderConverter interface {
	ToModel(entity *domain.Order) (*OrderModel, error)
	ToEntity(model *OrderModel) (*domain.Order, error)
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type ProductConverterImpl struct{}

func (ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}

	model := &ProductModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Price:       entity.Price,
		Category:    string(entity.Category),
		Image:       entity.Image,
		Description: entity.Description,
		Featured:    entity.Featured,
		SalePrice:   entity.SalePrice,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
	if entity.DiscountPercentage != nil {
		d := int32(*entity.DiscountPercentage)
		model.DiscountPercentage = &d
	}

	return model
}

func (ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}

	entity := &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Price:       model.Price,
		Category:    domain.Category(model.Category),
		Image:       model.Image,
		Description: model.Description,
		Featured:    model.Featured,
		SalePrice:   model.SalePrice,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	if model.DiscountPercentage != nil {
		d := int(*model.DiscountPercentage)
		entity.DiscountPercentage = &d
	}

	return entity
}

type OrderConverterImpl struct{}

func (OrderConverterImpl) ToModel(entity *domain.Order) (*OrderModel, error) {
	items := make([]OrderItemModel, 0, len(entity.Items))
	for _, l := range entity.Items {
		items = append(items, OrderItemModel{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			SalePrice: l.SalePrice,
			Category:  string(l.Category),
			Image:     l.Image,
			Quantity:  l.Quantity,
		})
	}

	data, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	return &OrderModel{
		ID:           entity.ID,
		UserID:       entity.UserID,
		Email:        entity.Email,
		FullName:     entity.Address.FullName,
		Phone:        entity.Address.Phone,
		AddressLine1: entity.Address.AddressLine1,
		AddressLine2: entity.Address.AddressLine2,
		City:         entity.Address.City,
		PostalCode:   entity.Address.PostalCode,
		Country:      string(entity.Address.Country),
		Items:        data,
		Subtotal:     entity.Totals.Subtotal,
		ShippingCost: entity.Totals.Shipping,
		TaxAmount:    entity.Totals.Tax,
		TotalAmount:  entity.Totals.Total,
		Status:       string(entity.Status),
		CreatedAt:    entity.CreatedAt,
	}, nil
}

func (OrderConverterImpl) ToEntity(model *OrderModel) (*domain.Order, error) {
	var items []OrderItemModel
	if err := json.Unmarshal(model.Items, &items); err != nil {
		return nil, err
	}

	lines := make([]domain.CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, domain.CartLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			SalePrice: it.SalePrice,
			Category:  domain.Category(it.Category),
			Image:     it.Image,
			Quantity:  it.Quantity,
		})
	}

	return &domain.Order{
		ID:     model.ID,
		UserID: model.UserID,
		Email:  model.Email,
		Address: domain.ShippingAddress{
			FullName:     model.FullName,
			Phone:        model.Phone,
			AddressLine1: model.AddressLine1,
			AddressLine2: model.AddressLine2,
			City:         model.City,
			PostalCode:   model.PostalCode,
			Country:      domain.Country(model.Country),
		},
		Items: lines,
		Totals: domain.OrderTotals{
			Subtotal: model.Subtotal,
			Shipping: model.ShippingCost,
			Tax:      model.TaxAmount,
			Total:    model.TotalAmount,
		},
		Status:    domain.OrderStatus(model.Status),
		CreatedAt: model.CreatedAt,
	}, nil
}

type OutboxEventConverterImpl struct{}

func (OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		AggregateID: entity.AggregateID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		AggregateID: model.AggregateID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		result = append(result, c.ToEntity(m))
	}

	return result
}
