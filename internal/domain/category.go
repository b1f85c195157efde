package domain

// Category — категория товара
type Category string

const (
	CategoryAll     Category = "ALL" // фильтр «все категории», не хранится у товара
	CategoryTops    Category = "TOPS"
	CategoryShorts  Category = "SHORTS"
	CategoryTShirts Category = "TSHIRTS"
	CategoryJackets Category = "JACKETS"
	CategorySets    Category = "SETS"
)

// Categories перечисляет категории, доступные для товаров, в порядке отображения.
var Categories = []Category{
	CategoryTops,
	CategoryShorts,
	CategoryTShirts,
	CategoryJackets,
	CategorySets,
}

// Valid сообщает, может ли товар принадлежать категории.
func (c Category) Valid() bool {
	for _, cat := range Categories {
		if c == cat {
			return true
		}
	}

	return false
}
