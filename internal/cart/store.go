// Package cart реализует состояние корзины одной сессии браузера.
//
// Store — единственная точка изменения позиций корзины. В корзине не бывает двух
// позиций с одним идентификатором товара, количество в позиции всегда от 1 до
// domain.MaxLineQuantity.
package cart

import (
	"sync"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/money"
)

// Listener получает копию позиций после каждого изменения корзины.
type Listener func(lines []domain.CartLine)

// Store хранит упорядоченные позиции корзины.
type Store struct {
	mu        sync.Mutex
	lines     []domain.CartLine
	listeners map[int]Listener
	nextID    int
}

// NewStore создаёт корзину из ранее сохранённых позиций.
// Некорректные позиции отбрасываются, дубликаты объединяются.
func NewStore(lines []domain.CartLine) *Store {
	return &Store{
		lines:     normalize(lines),
		listeners: make(map[int]Listener),
	}
}

// AddItem увеличивает количество существующей позиции или добавляет новую в конец.
// Недопустимое количество игнорируется, как и добавление, после которого позиция
// превысила бы domain.MaxLineQuantity. Возвращает false, если корзина не изменилась.
func (s *Store) AddItem(product *domain.Product, quantity int) bool {
	if product == nil || product.ID == "" || !domain.ValidQuantity(quantity) {
		return false
	}

	applied := false
	s.mutate(func() bool {
		if i := s.indexOf(product.ID); i >= 0 {
			if s.lines[i].Quantity > domain.MaxLineQuantity-quantity {
				return false
			}
			s.lines[i].Quantity += quantity
			applied = true
			return true
		}

		s.lines = append(s.lines, domain.NewCartLine(product, quantity))
		applied = true
		return true
	})

	return applied
}

// UpdateQuantity задаёт количество позиции; quantity <= 0 удаляет позицию.
// Для отсутствующего товара и количества больше domain.MaxLineQuantity ничего не делает.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}
	if quantity > domain.MaxLineQuantity {
		return
	}

	s.mutate(func() bool {
		i := s.indexOf(productID)
		if i < 0 || s.lines[i].Quantity == quantity {
			return false
		}

		s.lines[i].Quantity = quantity
		return true
	})
}

// RemoveItem удаляет позицию, если она есть.
func (s *Store) RemoveItem(productID string) {
	s.mutate(func() bool {
		i := s.indexOf(productID)
		if i < 0 {
			return false
		}

		s.lines = append(s.lines[:i], s.lines[i+1:]...)
		return true
	})
}

// Clear очищает корзину.
func (s *Store) Clear() {
	s.mutate(func() bool {
		if len(s.lines) == 0 {
			return false
		}

		s.lines = nil
		return true
	})
}

// TotalPrice возвращает сумму (salePrice ?? price) * quantity по всем позициям.
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return TotalPrice(s.lines)
}

// TotalQuantity возвращает суммарное количество товаров (счётчик корзины).
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return TotalQuantity(s.lines)
}

// Lines возвращает копию позиций в порядке добавления.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyLines(s.lines)
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.lines) == 0
}

// Subscribe регистрирует слушателя изменений. Возвращает функцию отписки.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// mutate выполняет изменение под блокировкой и уведомляет слушателей вне её.
func (s *Store) mutate(fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}

	snapshot := copyLines(s.lines)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

func (s *Store) indexOf(productID string) int {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return i
		}
	}

	return -1
}

// TotalPrice считает стоимость позиций.
func TotalPrice(lines []domain.CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.LineTotal()
	}

	return total
}

// TotalQuantity считает количество товаров в позициях.
func TotalQuantity(lines []domain.CartLine) int {
	var total int
	for _, l := range lines {
		total += l.Quantity
	}

	return total
}

func copyLines(lines []domain.CartLine) []domain.CartLine {
	if len(lines) == 0 {
		return []domain.CartLine{}
	}

	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}

// normalize отбрасывает позиции без товара, с недопустимым количеством или ценой
// и объединяет повторяющиеся товары, сохраняя порядок первого вхождения.
// Количество объединённой позиции не превышает domain.MaxLineQuantity.
func normalize(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || !domain.ValidQuantity(l.Quantity) || !validPrice(l.Price, l.SalePrice) {
			continue
		}

		if i, ok := index[l.ProductID]; ok {
			out[i].Quantity = min(out[i].Quantity+l.Quantity, domain.MaxLineQuantity)
			continue
		}

		index[l.ProductID] = len(out)
		out = append(out, l)
	}

	return out
}

func validPrice(price int64, sale *int64) bool {
	if price < 0 || price > money.MaxMinorUnits {
		return false
	}

	return sale == nil || (*sale >= 0 && *sale <= money.MaxMinorUnits)
}
