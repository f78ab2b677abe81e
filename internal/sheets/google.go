package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/campanha-inteligente/ideas-wall/internal/config"
)

const tokenURL = "https://oauth2.googleapis.com/token"

var errSheetMissing = errors.New("sheet not found")

// Google — API поверх Google Sheets v4 с сервисным аккаунтом.
type Google struct {
	srv           *gsheets.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64
}

// NewGoogle авторизуется сервисным аккаунтом из cfg.
// Приватный ключ допускает экранированные переводы строк ("\n") из ENV.
func NewGoogle(ctx context.Context, cfg config.SheetsConfig) (*Google, error) {
	const op = "sheets/NewGoogle"

	conf := &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")),
		Scopes:     []string{gsheets.SpreadsheetsScope},
		TokenURL:   tokenURL,
	}

	// Клиент живёт дольше ctx старта.
	client := conf.Client(context.WithoutCancel(ctx))

	g, err := newGoogle(ctx, cfg.SpreadsheetID, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return g, nil
}

func newGoogle(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Google, error) {
	srv, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &Google{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}, nil
}

func (g *Google) Values(ctx context.Context, rng string) ([][]any, error) {
	resp, err := g.srv.Spreadsheets.Values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return resp.Values, nil
}

func (g *Google) Update(ctx context.Context, rng string, values [][]any) error {
	_, err := g.srv.Spreadsheets.Values.
		Update(g.spreadsheetID, rng, &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()

	return err
}

func (g *Google) Append(ctx context.Context, rng string, values [][]any) error {
	_, err := g.srv.Spreadsheets.Values.
		Append(g.spreadsheetID, rng, &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()

	return err
}

func (g *Google) AlignRow(ctx context.Context, sheetTitle string, row, columns int64) error {
	sheetID, err := g.sheetID(ctx, sheetTitle)
	if err != nil {
		return err
	}

	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			RepeatCell: &gsheets.RepeatCellRequest{
				Range: &gsheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    row,
					EndRowIndex:      row + 1,
					StartColumnIndex: 0,
					EndColumnIndex:   columns,
					// Нулевые индексы иначе выпадают из JSON.
					ForceSendFields: []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
				},
				Cell: &gsheets.CellData{
					UserEnteredFormat: &gsheets.CellFormat{
						HorizontalAlignment: "LEFT",
						VerticalAlignment:   "MIDDLE",
					},
				},
				Fields: "userEnteredFormat(horizontalAlignment,verticalAlignment)",
			},
		}},
	}

	_, err = g.srv.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()

	return err
}

func (g *Google) EnsureSheet(ctx context.Context, title string) error {
	_, err := g.sheetID(ctx, title)
	if err == nil {
		return nil
	}

	if !errors.Is(err, errSheetMissing) {
		return err
	}

	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{Title: title},
			},
		}},
	}

	resp, err := g.srv.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return err
	}

	for _, r := range resp.Replies {
		if r.AddSheet != nil && r.AddSheet.Properties != nil {
			g.mu.Lock()
			g.sheetIDs[title] = r.AddSheet.Properties.SheetId
			g.mu.Unlock()
		}
	}

	return nil
}

// sheetID — числовой id листа по названию (кэшируется).
func (g *Google) sheetID(ctx context.Context, title string) (int64, error) {
	g.mu.Lock()
	id, ok := g.sheetIDs[title]
	g.mu.Unlock()

	if ok {
		return id, nil
	}

	ss, err := g.srv.Spreadsheets.Get(g.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, sh := range ss.Sheets {
		if sh.Properties == nil {
			continue
		}

		g.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
	}

	id, ok = g.sheetIDs[title]
	if !ok {
		return 0, fmt.Errorf("%q: %w", title, errSheetMissing)
	}

	return id, nil
}
