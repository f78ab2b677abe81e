package models

// Filter — вкладки стены.
type Filter string

const (
	// FilterAll — все идеи.
	FilterAll Filter = "all"
	// FilterMine — идеи, опубликованные текущим пользователем.
	FilterMine Filter = "mine"
	// FilterCommented — идеи, где пользователь оставил комментарий на любой глубине.
	FilterCommented Filter = "commented"
)

// Valid — известное значение фильтра.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterMine, FilterCommented:
		return true
	default:
		return false
	}
}

// Page — результат постраничной выдачи.
// Page — номер после ограничения диапазоном [1, TotalPages]; TotalPages >= 1 всегда.
type Page struct {
	Items      []Idea
	Page       int
	PageSize   int
	TotalPages int
	Total      int
}
