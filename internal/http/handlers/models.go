package handlers

import (
	"time"

	"github.com/campanha-inteligente/ideas-wall/internal/display"
	"github.com/campanha-inteligente/ideas-wall/internal/models"
)

// Author — публичный снимок автора. E-mail наружу не отдаётся.
type Author struct {
	ID        string `json:"id,omitempty"` // "" — анонимный комментарий
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type Comment struct {
	ID        int64     `json:"id"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	TimeAgo   string    `json:"time_ago"`
	CanDelete bool      `json:"can_delete"` // автор комментария — текущий пользователь
	Replies   []Comment `json:"replies"`
}

type Idea struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	City      string    `json:"city"`
	Idea      string    `json:"idea"`
	Likes     int       `json:"likes"`
	LikedByMe bool      `json:"liked_by_me"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	TimeAgo   string    `json:"time_ago"`
	CanDelete bool      `json:"can_delete"`
}

type IdeasPage struct {
	Items      []Idea `json:"items"`
	Page       int    `json:"page"` // после ограничения диапазоном
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
	Total      int    `json:"total"`
}

type CreateIdeaRequest struct {
	City string `json:"city"`
	Idea string `json:"idea"`
}

// AddCommentRequest — комментарий (parent_id пуст) или ответ.
// author_name учитывается только для анонимных комментариев.
type AddCommentRequest struct {
	Text       string `json:"text"`
	ParentID   *int64 `json:"parent_id,omitempty"`
	AuthorName string `json:"author_name,omitempty"`
}

type AddCommentResponse struct {
	Idea    Idea    `json:"idea"`
	Comment Comment `json:"comment"`
}

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Email     string `json:"email,omitempty"`
}

type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// view — контекст отрисовки: кто смотрит и относительно какого момента.
type view struct {
	viewer *models.Identity
	now    time.Time
}

func (v view) viewerID() string {
	if v.viewer == nil {
		return ""
	}
	return v.viewer.ID
}

func (v view) idea(i models.Idea) Idea {
	uid := v.viewerID()

	return Idea{
		ID: i.ID,
		Author: Author{
			ID:        i.AuthorID,
			Name:      i.AuthorName,
			AvatarURL: i.AuthorAvatar,
		},
		City:      i.Location,
		Idea:      i.Body,
		Likes:     i.LikeCount,
		LikedByMe: uid != "" && i.LikedByUser(uid),
		Comments:  v.comments(i.Comments),
		CreatedAt: i.CreatedAt,
		TimeAgo:   display.RelativeTime(i.CreatedAt, v.now),
		CanDelete: uid != "" && uid == i.AuthorID,
	}
}

func (v view) comment(c models.Comment) Comment {
	uid := v.viewerID()

	return Comment{
		ID:        c.ID,
		Author:    Author{ID: c.AuthorID, Name: c.AuthorName},
		Text:      c.Body,
		CreatedAt: c.CreatedAt,
		TimeAgo:   display.RelativeTime(c.CreatedAt, v.now),
		CanDelete: uid != "" && uid == c.AuthorID,
		Replies:   v.comments(c.Replies),
	}
}

func (v view) comments(level []models.Comment) []Comment {
	out := make([]Comment, 0, len(level))
	for _, c := range level {
		out = append(out, v.comment(c))
	}

	return out
}

func (v view) page(p models.Page) IdeasPage {
	items := make([]Idea, 0, len(p.Items))
	for _, i := range p.Items {
		items = append(items, v.idea(i))
	}

	return IdeasPage{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Total:      p.Total,
	}
}

func userFrom(id models.Identity) User {
	return User{ID: id.ID, Name: id.DisplayName, AvatarURL: id.AvatarURL, Email: id.Email}
}
