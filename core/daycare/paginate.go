package daycare

// DefaultPageSize is the number of rows per page of list screens.
const DefaultPageSize = 20

// Page is a window over a list; Number is 1-based.
type Page[T any] struct {
	Items  []T
	Number int
	Size   int
	Total  int
	Pages  int
}

func (p Page[T]) HasPrev() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.Number < p.Pages }
func (p Page[T]) Prev() int     { return p.Number - 1 }
func (p Page[T]) Next() int     { return p.Number + 1 }

// Paginate returns the requested page of items, clamping number to [1, Pages].
func Paginate[T any](items []T, number, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}
	start := (number - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	return Page[T]{
		Items:  items[start:end],
		Number: number,
		Size:   size,
		Total:  total,
		Pages:  pages,
	}
}
