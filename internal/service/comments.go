package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
	"github.com/campanha-inteligente/ideas-wall/internal/pkg/log"
	"github.com/campanha-inteligente/ideas-wall/internal/thread"
)

// AnonymousName — подпись комментария без входа, если имя не указано.
const AnonymousName = "Anônimo"

// AddCommentInput — комментарий к идее или ответ на комментарий любой глубины.
// Правила:
//   - Author задан -> имя и ID берутся из него, AuthorName игнорируется;
//   - Author == nil -> допустимо только при wall.allow_anonymous_comments, подпись из AuthorName;
//   - ParentID == nil -> комментарий верхнего уровня.
type AddCommentInput struct {
	Author     *models.Identity
	AuthorName string
	Body       string `json:"text" validate:"trimmed_min=1"`
	ParentID   *int64
}

// AddComment добавляет комментарий в конец уровня: идеи или Replies родителя.
//
// Поведение/ошибки:
//   - ErrUnauthenticated — нет пользователя и анонимные комментарии выключены;
//   - ErrInvalidArgument — пустой текст;
//   - ErrParentNotFound — ParentID не найден ни на одном уровне, дерево не меняется;
//   - ErrNotFound — идеи нет;
//   - ErrConflict — параллельные записи не дали применить изменение;
//   - ErrInternal — сбой хранилища.
func (s *Service) AddComment(ctx context.Context, ideaID string, in AddCommentInput) (*models.Idea, *models.Comment, error) {
	const op = "service/comments/AddComment"

	ideaID = strings.TrimSpace(ideaID)
	lg := log.From(ctx).With("op", op, "idea_id", ideaID)

	var authorID, authorName string
	switch {
	case authenticated(in.Author):
		authorID, authorName = in.Author.ID, in.Author.DisplayName
	case s.cfg.Wall.AllowAnonymousComments:
		authorName = strings.TrimSpace(in.AuthorName)
		if authorName == "" {
			authorName = AnonymousName
		}
	default:
		lg.Warn("unauthenticated")
		return nil, nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if ideaID == "" {
		lg.Warn("invalid argument: empty id")
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Body = strings.TrimSpace(in.Body)
	if err := s.validator.Struct(in); err != nil {
		lg.Warn("invalid argument", "err", err)
		return nil, nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	var created models.Comment

	idea, err := s.mutate(ctx, op, ideaID, func(idea *models.Idea) (models.IdeaUpdate, error) {
		created = models.Comment{
			ID:         s.ids.Next(func(id int64) bool { return thread.Contains(idea.Comments, id) }),
			AuthorID:   authorID,
			AuthorName: authorName,
			Body:       in.Body,
			CreatedAt:  s.now().UTC(),
			Replies:    []models.Comment{},
		}

		var tree []models.Comment
		if in.ParentID == nil {
			tree = thread.Append(idea.Comments, created)
		} else {
			var err error
			tree, err = thread.AppendReply(idea.Comments, *in.ParentID, created)
			if errors.Is(err, thread.ErrNotFound) {
				return models.IdeaUpdate{}, ErrParentNotFound
			}
			if err != nil {
				return models.IdeaUpdate{}, err
			}
		}

		return models.IdeaUpdate{Comments: &tree}, nil
	})
	if err != nil {
		if errors.Is(err, ErrParentNotFound) {
			lg.Warn("parent comment not found", "parent_id", *in.ParentID)
		}
		return nil, nil, err
	}

	lg.Info("comment added", "comment_id", created.ID, "user_id", authorID)
	s.syncMirror(ctx, idea)

	return idea, &created, nil
}

// RemoveComment удаляет комментарий и всё его поддерево ответов с любого уровня.
// Удалять может только автор комментария; анонимные комментарии не удаляются никем.
//
// Поведение/ошибки:
//   - ErrUnauthenticated — нет пользователя;
//   - ErrCommentNotFound — комментария нет в дереве;
//   - ErrPermissionDenied — requester не автор;
//   - ErrNotFound / ErrConflict / ErrInternal — как у AddComment.
func (s *Service) RemoveComment(ctx context.Context, ideaID string, commentID int64, requester *models.Identity) (*models.Idea, error) {
	const op = "service/comments/RemoveComment"

	ideaID = strings.TrimSpace(ideaID)
	lg := log.From(ctx).With("op", op, "idea_id", ideaID, "comment_id", commentID)

	if !authenticated(requester) {
		lg.Warn("unauthenticated")
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if ideaID == "" {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	idea, err := s.mutate(ctx, op, ideaID, func(idea *models.Idea) (models.IdeaUpdate, error) {
		target, ok := thread.Find(idea.Comments, commentID)
		if !ok {
			return models.IdeaUpdate{}, ErrCommentNotFound
		}

		if target.AuthorID == "" || target.AuthorID != requester.ID {
			return models.IdeaUpdate{}, ErrPermissionDenied
		}

		tree, _ := thread.Remove(idea.Comments, commentID)

		return models.IdeaUpdate{Comments: &tree}, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrCommentNotFound):
			lg.Warn("comment not found")
		case errors.Is(err, ErrPermissionDenied):
			lg.Warn("permission denied", "user_id", requester.ID)
		}
		return nil, err
	}

	lg.Info("comment removed", "user_id", requester.ID)
	s.syncMirror(ctx, idea)

	return idea, nil
}
