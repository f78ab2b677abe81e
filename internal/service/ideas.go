package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
	"github.com/campanha-inteligente/ideas-wall/internal/pkg/log"
	"github.com/campanha-inteligente/ideas-wall/internal/validate"
)

// Входные структуры сервисного слоя.

// CreateIdeaInput — публикация идеи.
// Длина Body проверяется отдельно: минимум задаётся конфигом (wall.min_idea_length).
type CreateIdeaInput struct {
	Location string `json:"city" validate:"required,location"`
	Body     string `json:"idea"`
}

// ListIdeasInput — параметры постраничной выдачи стены.
//   - Page с 1; вне диапазона ограничивается;
//   - PageSize <= 0 -> wall.page_size; больше wall.max_page_size -> max;
//   - Filter "" == all; mine/commented требуют Viewer.
type ListIdeasInput struct {
	Page     int
	PageSize int
	Filter   models.Filter
	Viewer   *models.Identity
}

// CreateIdea — публикация идеи от имени author.
//
// Валидация:
//   - author обязателен (иначе ErrUnauthenticated);
//   - Location в формате "<lugar>, <lugar>";
//   - Body после TrimSpace не короче wall.min_idea_length.
//
// Поведение/ошибки:
//   - при ошибке валидации хранилище не вызывается (ErrInvalidArgument);
//   - ErrInternal — запись не удалась; идея не создана.
func (s *Service) CreateIdea(ctx context.Context, author *models.Identity, in CreateIdeaInput) (*models.Idea, error) {
	const op = "service/ideas/CreateIdea"

	lg := log.From(ctx).With("op", op)

	if !authenticated(author) {
		lg.Warn("unauthenticated")
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	lg = lg.With("user_id", author.ID)

	in.Location = strings.TrimSpace(in.Location)
	in.Body = strings.TrimSpace(in.Body)

	if err := s.validator.Struct(in); err != nil {
		lg.Warn("invalid argument", "err", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	minLen := s.cfg.Wall.MinIdeaLength
	if minLen <= 0 {
		minLen = 1
	}

	if err := s.validator.Var("idea", in.Body, validate.TagTrimmedMin+"="+strconv.Itoa(minLen)); err != nil {
		lg.Warn("invalid argument", "err", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	idea, err := s.storage.CreateIdea(ctx, models.Idea{
		AuthorID:     author.ID,
		AuthorName:   author.DisplayName,
		AuthorAvatar: author.AvatarURL,
		AuthorEmail:  author.Email,
		Location:     in.Location,
		Body:         in.Body,
		LikedBy:      []string{},
		Comments:     []models.Comment{},
	})
	if err != nil {
		return nil, s.storageErr(ctx, op, err)
	}

	lg.Info("idea created", "idea_id", idea.ID)
	s.syncMirror(ctx, idea)

	return idea, nil
}

// IdeaByID — идея со всем деревом комментариев.
func (s *Service) IdeaByID(ctx context.Context, id string) (*models.Idea, error) {
	const op = "service/ideas/IdeaByID"

	id = strings.TrimSpace(id)
	if id == "" {
		log.From(ctx).Warn("invalid argument: empty id", "op", op)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	idea, err := s.storage.IdeaByID(ctx, id)
	if err != nil {
		return nil, s.storageErr(ctx, op, err)
	}

	return idea, nil
}

// RemoveIdea — удаление идеи вместе с деревом комментариев. Только автор идеи.
//
// Поведение/ошибки:
//   - ErrUnauthenticated — нет пользователя;
//   - ErrPermissionDenied — requester не автор;
//   - ErrNotFound — идеи нет;
//   - ErrInternal — сбой хранилища.
//
// Таблица-зеркало только дополняется/обновляется, поэтому удаление в неё не отправляется.
func (s *Service) RemoveIdea(ctx context.Context, id string, requester *models.Identity) error {
	const op = "service/ideas/RemoveIdea"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "idea_id", id)

	if !authenticated(requester) {
		lg.Warn("unauthenticated")
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if id == "" {
		lg.Warn("invalid argument: empty id")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	idea, err := s.storage.IdeaByID(ctx, id)
	if err != nil {
		return s.storageErr(ctx, op, err)
	}

	if idea.AuthorID != requester.ID {
		lg.Warn("permission denied", "user_id", requester.ID)
		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	if err := s.storage.DeleteIdea(ctx, id); err != nil {
		return s.storageErr(ctx, op, err)
	}

	lg.Info("idea removed", "user_id", requester.ID)

	return nil
}

// ListIdeas — страница стены с фильтром вкладки.
func (s *Service) ListIdeas(ctx context.Context, in ListIdeasInput) (*models.Page, error) {
	const op = "service/ideas/ListIdeas"

	lg := log.From(ctx).With("op", op, "filter", string(in.Filter))

	if in.Filter == "" {
		in.Filter = models.FilterAll
	}

	if !in.Filter.Valid() {
		lg.Warn("invalid argument: unknown filter")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	var userID string
	if in.Filter != models.FilterAll {
		if !authenticated(in.Viewer) {
			lg.Warn("unauthenticated")
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
		}
		userID = in.Viewer.ID
	}

	size := s.pageSize(in.PageSize)

	ideas, err := s.storage.Ideas(ctx)
	if err != nil {
		return nil, s.storageErr(ctx, op, err)
	}

	page := Paginate(filterIdeas(ideas, in.Filter, userID), in.Page, size)

	return &page, nil
}

// pageSize приводит запрошенный размер страницы к [1, MaxPageSize] с дефолтом PageSize.
func (s *Service) pageSize(requested int) int {
	size := requested
	if size <= 0 {
		size = s.cfg.Wall.PageSize
	}

	if limit := s.cfg.Wall.MaxPageSize; limit > 0 && size > limit {
		size = limit
	}

	if size <= 0 {
		size = 5
	}

	return size
}
