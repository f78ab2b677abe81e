// Package thread — чистые функции над деревом комментариев идеи.
//
// Все функции принимают дерево как значение и возвращают новое дерево;
// входные срезы не изменяются. Нетронутые поддеревья разделяются между
// старым и новым деревом, поэтому вызывающий код не должен мутировать результат на месте.
package thread

import (
	"errors"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
)

// ErrNotFound — комментарий с указанным ID отсутствует на всех уровнях дерева.
var ErrNotFound = errors.New("comment not found")

// Find ищет комментарий по ID обходом в глубину (первое совпадение).
func Find(tree []models.Comment, id int64) (models.Comment, bool) {
	for _, c := range tree {
		if c.ID == id {
			return c, true
		}

		if found, ok := Find(c.Replies, id); ok {
			return found, true
		}
	}

	return models.Comment{}, false
}

// Contains — есть ли комментарий с таким ID где-либо в дереве.
func Contains(tree []models.Comment, id int64) bool {
	_, ok := Find(tree, id)
	return ok
}

// Append добавляет комментарий в конец уровня.
func Append(level []models.Comment, c models.Comment) []models.Comment {
	out := make([]models.Comment, len(level), len(level)+1)
	copy(out, level)

	return append(out, c)
}

// AppendReply добавляет reply в конец Replies комментария parentID на любой глубине.
// Копируется только путь от корня до родителя; прочие ветки остаются как были.
// Если родителя нет — ErrNotFound и исходное дерево.
func AppendReply(tree []models.Comment, parentID int64, reply models.Comment) ([]models.Comment, error) {
	out, ok := appendReply(tree, parentID, reply)
	if !ok {
		return tree, ErrNotFound
	}

	return out, nil
}

func appendReply(level []models.Comment, parentID int64, reply models.Comment) ([]models.Comment, bool) {
	for i := range level {
		if level[i].ID == parentID {
			out := clone(level)
			out[i].Replies = Append(level[i].Replies, reply)
			return out, true
		}

		if replies, ok := appendReply(level[i].Replies, parentID, reply); ok {
			out := clone(level)
			out[i].Replies = replies
			return out, true
		}
	}

	return nil, false
}

// Remove удаляет комментарий id вместе со всем поддеревом ответов.
// Фильтрация идёт на каждом уровне: вызывающий знает только ID, но не путь.
// Второй результат — был ли удалён хотя бы один узел.
func Remove(tree []models.Comment, id int64) ([]models.Comment, bool) {
	removed := false
	out := make([]models.Comment, 0, len(tree))

	for _, c := range tree {
		if c.ID == id {
			removed = true
			continue
		}

		if replies, ok := Remove(c.Replies, id); ok {
			c.Replies = replies
			removed = true
		}

		out = append(out, c)
	}

	return out, removed
}

// Walk обходит дерево в глубину; depth корня = 0. fn возвращает false, чтобы остановить обход.
func Walk(tree []models.Comment, fn func(c models.Comment, depth int) bool) {
	walk(tree, 0, fn)
}

func walk(level []models.Comment, depth int, fn func(models.Comment, int) bool) bool {
	for _, c := range level {
		if !fn(c, depth) {
			return false
		}

		if !walk(c.Replies, depth+1, fn) {
			return false
		}
	}

	return true
}

// HasAuthor — оставлял ли authorID комментарий на любой глубине.
func HasAuthor(tree []models.Comment, authorID string) bool {
	if authorID == "" {
		return false
	}

	found := false
	Walk(tree, func(c models.Comment, _ int) bool {
		found = c.AuthorID == authorID
		return !found
	})

	return found
}

// Count — общее число узлов.
func Count(tree []models.Comment) int {
	n := 0
	Walk(tree, func(models.Comment, int) bool {
		n++
		return true
	})

	return n
}

func clone(level []models.Comment) []models.Comment {
	out := make([]models.Comment, len(level))
	copy(out, level)

	return out
}
