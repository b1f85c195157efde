package cart

import (
	"encoding/json"

	"github.com/DRSN-tech/storefront/internal/domain"
)

// Record — сохраняемое представление корзины: {"items":[...]}.
type Record struct {
	Items []RecordItem `json:"items"`
}

type RecordItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     int64   `json:"price"`
	SalePrice *int64  `json:"salePrice,omitempty"`
	Category  string  `json:"category"`
	Image     *string `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Encode сериализует позиции корзины.
func Encode(lines []domain.CartLine) ([]byte, error) {
	rec := Record{Items: make([]RecordItem, 0, len(lines))}
	for _, l := range lines {
		rec.Items = append(rec.Items, RecordItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			SalePrice: l.SalePrice,
			Category:  string(l.Category),
			Image:     l.Image,
			Quantity:  l.Quantity,
		})
	}

	return json.Marshal(rec)
}

// Decode восстанавливает позиции корзины. Повреждённые данные дают пустую корзину,
// некорректные позиции отбрасываются, дубликаты объединяются.
func Decode(data []byte) []domain.CartLine {
	if len(data) == 0 {
		return []domain.CartLine{}
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return []domain.CartLine{}
	}

	lines := make([]domain.CartLine, 0, len(rec.Items))
	for _, it := range rec.Items {
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

	return normalize(lines)
}
