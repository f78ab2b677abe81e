package service

import (
	"sort"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
	"github.com/campanha-inteligente/ideas-wall/internal/thread"
)

// Paginate возвращает страницу page (с 1) размера size из ideas, отсортированных по CreatedAt DESC.
//   - TotalPages = ceil(len/size), минимум 1 даже для пустой коллекции;
//   - page вне [1, TotalPages] ограничивается краем диапазона, без переноса по кругу;
//   - вход не изменяется; при равном CreatedAt порядок задаёт ID (DESC).
func Paginate(ideas []models.Idea, page, size int) models.Page {
	if size <= 0 {
		size = 1
	}

	sorted := make([]models.Idea, len(ideas))
	copy(sorted, ideas)

	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})

	total := len(sorted)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	items := make([]models.Idea, 0, end-start)
	items = append(items, sorted[start:end]...)

	return models.Page{
		Items:      items,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		Total:      total,
	}
}

// filterIdeas оставляет идеи вкладки f для пользователя userID.
func filterIdeas(ideas []models.Idea, f models.Filter, userID string) []models.Idea {
	if f == models.FilterAll || f == "" {
		return ideas
	}

	out := make([]models.Idea, 0, len(ideas))
	for _, idea := range ideas {
		switch f {
		case models.FilterMine:
			if idea.AuthorID == userID {
				out = append(out, idea)
			}
		case models.FilterCommented:
			if thread.HasAuthor(idea.Comments, userID) {
				out = append(out, idea)
			}
		}
	}

	return out
}
