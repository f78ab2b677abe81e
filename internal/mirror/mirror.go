// Package mirror — формат зеркала идеи в таблице и HTTP-клиент к эндпоинту зеркала.
package mirror

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
)

// Payload — тело POST /mirror/ideas. Кроме ideaId все поля необязательны.
type Payload struct {
	IdeaID   string    `json:"ideaId" validate:"required"`
	Author   string    `json:"author,omitempty"`
	Email    string    `json:"email,omitempty"`
	City     string    `json:"city,omitempty"`
	Idea     string    `json:"idea,omitempty"`
	Likes    int       `json:"likes"`
	Comments []Comment `json:"comments"`
}

// Comment — узел дерева в зеркале: только то, что попадает в ячейку.
type Comment struct {
	ID      int64     `json:"id,omitempty"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Replies []Comment `json:"replies,omitempty"`
}

// FromIdea снимает полный снимок идеи для зеркала.
func FromIdea(idea models.Idea) Payload {
	return Payload{
		IdeaID:   idea.ID,
		Author:   idea.AuthorName,
		Email:    idea.AuthorEmail,
		City:     idea.Location,
		Idea:     idea.Body,
		Likes:    idea.LikeCount,
		Comments: fromModel(idea.Comments),
	}
}

// Tree возвращает дерево комментариев в доменном виде (без времени и авторов-id).
func (p Payload) Tree() []models.Comment {
	return toModel(p.Comments)
}

func fromModel(level []models.Comment) []Comment {
	out := make([]Comment, 0, len(level))
	for _, c := range level {
		out = append(out, Comment{
			ID:      c.ID,
			Author:  c.AuthorName,
			Text:    c.Body,
			Replies: fromModel(c.Replies),
		})
	}

	return out
}

func toModel(level []Comment) []models.Comment {
	if len(level) == 0 {
		return nil
	}

	out := make([]models.Comment, 0, len(level))
	for _, c := range level {
		out = append(out, models.Comment{
			ID:         c.ID,
			AuthorName: c.Author,
			Body:       c.Text,
			Replies:    toModel(c.Replies),
		})
	}

	return out
}

// Result — ответ эндпоинта зеркала.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Client отправляет снимки идей на HTTP-эндпоинт зеркала.
type Client struct {
	http *resty.Client
	url  string
}

// NewClient создаёт клиента. timeout ограничивает один запрос целиком.
func NewClient(url string, timeout time.Duration) *Client {
	rc := resty.NewWithClient(&http.Client{}).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{http: rc, url: url}
}

// SyncIdea публикует снимок idea; не-2xx ответ считается ошибкой.
func (c *Client) SyncIdea(ctx context.Context, idea models.Idea) error {
	const op = "mirror/Client/SyncIdea"

	var res Result
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(FromIdea(idea)).
		SetResult(&res).
		SetError(&res).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if resp.IsError() || !res.Success {
		return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode(), res.Error)
	}

	return nil
}
