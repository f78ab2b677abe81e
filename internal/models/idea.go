// Package models содержит доменные сущности «стены идей».
package models

import "time"

// Identity — снимок пользователя от провайдера идентичности.
// В идеях и комментариях хранится копия на момент публикации, без живой связи с провайдером.
type Identity struct {
	ID          string
	DisplayName string
	AvatarURL   string
	Email       string
}

// Idea — предложение пользователя с лайками и деревом комментариев.
// Важно:
//   - ID назначает хранилище при создании, клиент его не выбирает;
//   - LikeCount всегда равен len(LikedBy) и не задаётся отдельно;
//   - CreatedAt назначает хранилище;
//   - Version растёт на каждой записи и используется для compare-and-set.
type Idea struct {
	ID           string
	AuthorID     string
	AuthorName   string
	AuthorAvatar string
	AuthorEmail  string
	Location     string
	Body         string
	LikeCount    int
	LikedBy      []string
	Comments     []Comment
	CreatedAt    time.Time
	Version      int64
}

// LikedByUser — есть ли userID среди лайкнувших.
func (i *Idea) LikedByUser(userID string) bool {
	for _, id := range i.LikedBy {
		if id == userID {
			return true
		}
	}

	return false
}

// Comment — узел дерева обсуждения. Ответ — это Comment, чей родитель другой Comment.
// ID уникален во всём дереве идеи (на любой глубине): адресация ответа идёт только по ID.
// Пустой AuthorID означает анонимного автора.
type Comment struct {
	ID         int64
	AuthorID   string
	AuthorName string
	Body       string
	CreatedAt  time.Time
	Replies    []Comment
}

// IdeaUpdate — частичное обновление документа идеи.
// Поле, равное nil, не трогается; заданное поле заменяется целиком (без deep-merge).
type IdeaUpdate struct {
	LikedBy  *[]string
	Comments *[]Comment
}

// Clone — глубокая копия: срезы LikedBy и всё дерево Comments не разделяются с оригиналом.
func (i Idea) Clone() Idea {
	out := i

	if i.LikedBy != nil {
		out.LikedBy = append(make([]string, 0, len(i.LikedBy)), i.LikedBy...)
	}

	out.Comments = cloneComments(i.Comments)

	return out
}

func cloneComments(level []Comment) []Comment {
	if level == nil {
		return nil
	}

	out := make([]Comment, len(level))
	for k, c := range level {
		out[k] = c
		out[k].Replies = cloneComments(c.Replies)
	}

	return out
}
