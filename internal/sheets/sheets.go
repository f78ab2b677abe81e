// Package sheets ведёт таблицу для людей: зеркало идей (Ideias!A:H) и список подписок (Emails!A:E).
//
// Таблица — вторичная копия, не источник истины.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/campanha-inteligente/ideas-wall/internal/display"
	"github.com/campanha-inteligente/ideas-wall/internal/models"
	"github.com/campanha-inteligente/ideas-wall/internal/pkg/log"
	"github.com/campanha-inteligente/ideas-wall/internal/thread"
)

// ErrRowNotFound — только что добавленная строка не нашлась при повторном чтении.
var ErrRowNotFound = errors.New("row not found after append")

// anonymous — автор строки, если имя не передано.
const anonymous = "Anônimo"

// ideaColumns — A..H: id, автор, e-mail, город, идея, лайки, комментарии, дата.
const ideaColumns = 8

// API — операции над значениями таблицы, нужные Writer.
// Диапазоны в нотации A1 ("Ideias!A:H").
type API interface {
	// Values читает диапазон построчно.
	Values(ctx context.Context, rng string) ([][]any, error)
	// Update перезаписывает диапазон значениями.
	Update(ctx context.Context, rng string, values [][]any) error
	// Append добавляет строки после последней заполненной.
	Append(ctx context.Context, rng string, values [][]any) error
	// AlignRow выравнивает ячейки строки row (с нуля) в колонках [0, columns): LEFT/MIDDLE.
	AlignRow(ctx context.Context, sheetTitle string, row, columns int64) error
	// EnsureSheet создаёт лист, если его нет.
	EnsureSheet(ctx context.Context, title string) error
}

// IdeaRow — данные идеи для строки зеркала.
type IdeaRow struct {
	IdeaID   string
	Author   string
	Email    string
	City     string
	Idea     string
	Likes    int
	Comments []models.Comment
}

// Signup — заявка с формы кампании.
type Signup struct {
	Name    string
	Email   string
	City    string
	Message string
}

// Writer пишет строки в таблицу.
type Writer struct {
	// upsertMu делает поиск строки и добавление одной операцией в пределах процесса.
	upsertMu sync.Mutex

	api          API
	ideasSheet   string
	signupsSheet string
	loc          *time.Location
	now          func() time.Time
}

// NewWriter создаёт Writer. loc == nil -> UTC.
func NewWriter(api API, ideasSheet, signupsSheet string, loc *time.Location) *Writer {
	if loc == nil {
		loc = time.UTC
	}

	return &Writer{
		api:          api,
		ideasSheet:   ideasSheet,
		signupsSheet: signupsSheet,
		loc:          loc,
		now:          time.Now,
	}
}

func (w *Writer) ideasRange() string { return w.ideasSheet + "!A:H" }

// UpsertIdea ищет строку по колонке A == IdeaID:
// найдена -> обновляет G:H (комментарии и дата);
// нет -> добавляет строку целиком и находит её заново.
// В обоих случаях строка выравнивается.
func (w *Writer) UpsertIdea(ctx context.Context, row IdeaRow) error {
	const op = "sheets/Writer/UpsertIdea"

	lg := log.From(ctx).With("op", op, "idea_id", row.IdeaID)

	comments := thread.Flatten(row.Comments)

	w.upsertMu.Lock()
	defer w.upsertMu.Unlock()

	stamp := display.SheetTimestamp(w.now(), w.loc)

	idx, err := w.findIdeaRow(ctx, row.IdeaID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if idx >= 0 {
		rng := fmt.Sprintf("%s!G%d:H%d", w.ideasSheet, idx+1, idx+1)
		if err := w.api.Update(ctx, rng, [][]any{{comments, stamp}}); err != nil {
			return fmt.Errorf("%s: update: %w", op, err)
		}

		lg.Debug("idea row updated", "row", idx+1)
	} else {
		author := row.Author
		if author == "" {
			author = anonymous
		}

		values := [][]any{{row.IdeaID, author, row.Email, row.City, row.Idea, row.Likes, comments, stamp}}
		if err := w.api.Append(ctx, w.ideasRange(), values); err != nil {
			return fmt.Errorf("%s: append: %w", op, err)
		}

		idx, err = w.findIdeaRow(ctx, row.IdeaID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if idx < 0 {
			return fmt.Errorf("%s: %w", op, ErrRowNotFound)
		}

		lg.Debug("idea row appended", "row", idx+1)
	}

	if err := w.api.AlignRow(ctx, w.ideasSheet, int64(idx), ideaColumns); err != nil {
		return fmt.Errorf("%s: align: %w", op, err)
	}

	return nil
}

// SyncIdea — прямое зеркалирование из сервиса без HTTP-эндпоинта.
func (w *Writer) SyncIdea(ctx context.Context, idea models.Idea) error {
	return w.UpsertIdea(ctx, IdeaRow{
		IdeaID:   idea.ID,
		Author:   idea.AuthorName,
		Email:    idea.AuthorEmail,
		City:     idea.Location,
		Idea:     idea.Body,
		Likes:    idea.LikeCount,
		Comments: idea.Comments,
	})
}

// AppendSignup добавляет заявку в Emails!A:E: имя, e-mail, город, сообщение, дата.
func (w *Writer) AppendSignup(ctx context.Context, s Signup) error {
	const op = "sheets/Writer/AppendSignup"

	values := [][]any{{s.Name, s.Email, s.City, s.Message, display.SheetTimestamp(w.now(), w.loc)}}
	if err := w.api.Append(ctx, w.signupsSheet+"!A:E", values); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// EnsureSheets создаёт недостающие листы на старте.
func (w *Writer) EnsureSheets(ctx context.Context) error {
	const op = "sheets/Writer/EnsureSheets"

	for _, title := range []string{w.ideasSheet, w.signupsSheet} {
		if err := w.api.EnsureSheet(ctx, title); err != nil {
			return fmt.Errorf("%s: %q: %w", op, title, err)
		}
	}

	return nil
}

// findIdeaRow — индекс строки (с нуля) с id в колонке A или -1.
func (w *Writer) findIdeaRow(ctx context.Context, ideaID string) (int, error) {
	rows, err := w.api.Values(ctx, w.ideasRange())
	if err != nil {
		return -1, fmt.Errorf("read rows: %w", err)
	}

	for i, r := range rows {
		if len(r) == 0 {
			continue
		}

		if fmt.Sprint(r[0]) == ideaID {
			return i, nil
		}
	}

	return -1, nil
}
