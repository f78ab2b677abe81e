package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
)

// fakeAPI — таблица в памяти: листы -> строки. Диапазоны понимает в объёме Writer.
type fakeAPI struct {
	rows     map[string][][]any
	updates  []string
	aligned  []int64
	ensured  []string
	failRead bool
	// Не видеть добавленную строку при повторном чтении.
	loseAppend bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{rows: map[string][][]any{}}
}

func sheetOf(rng string) string {
	name, _, _ := strings.Cut(rng, "!")
	return name
}

func (f *fakeAPI) Values(_ context.Context, rng string) ([][]any, error) {
	if f.failRead {
		return nil, errors.New("quota exceeded")
	}

	return f.rows[sheetOf(rng)], nil
}

func (f *fakeAPI) Update(_ context.Context, rng string, values [][]any) error {
	f.updates = append(f.updates, rng)

	// Только формат "<лист>!G<n>:H<n>".
	var n int
	_, cells, _ := strings.Cut(rng, "!G")
	for _, ch := range cells {
		if ch == ':' {
			break
		}
		n = n*10 + int(ch-'0')
	}

	row := f.rows[sheetOf(rng)][n-1]
	for len(row) < ideaColumns {
		row = append(row, "")
	}
	row[6], row[7] = values[0][0], values[0][1]
	f.rows[sheetOf(rng)][n-1] = row

	return nil
}

func (f *fakeAPI) Append(_ context.Context, rng string, values [][]any) error {
	if f.loseAppend {
		return nil
	}

	f.rows[sheetOf(rng)] = append(f.rows[sheetOf(rng)], values...)
	return nil
}

func (f *fakeAPI) AlignRow(_ context.Context, _ string, row, columns int64) error {
	if columns != ideaColumns {
		return errors.New("unexpected columns")
	}

	f.aligned = append(f.aligned, row)
	return nil
}

func (f *fakeAPI) EnsureSheet(_ context.Context, title string) error {
	f.ensured = append(f.ensured, title)
	return nil
}

var fixedNow = time.Date(2025, 3, 14, 15, 4, 5, 0, time.UTC)

func newTestWriter(api API) *Writer {
	loc := time.FixedZone("BRT", -3*60*60)
	w := NewWriter(api, "Ideias", "Emails", loc)
	w.now = func() time.Time { return fixedNow }

	return w
}

func TestUpsertIdea_AppendsNewRow(t *testing.T) {
	api := newFakeAPI()
	api.rows["Ideias"] = [][]any{{"ID", "Autor", "Email", "Cidade", "Ideia", "Likes", "Comentários", "Data"}}
	w := newTestWriter(api)

	err := w.UpsertIdea(context.Background(), IdeaRow{
		IdeaID: "idea-1",
		Email:  "ana@example.com",
		City:   "Niterói, RJ",
		Idea:   "Bicicletário em cada estação",
		Likes:  0,
	})
	require.NoError(t, err)

	require.Len(t, api.rows["Ideias"], 2)
	require.Equal(t,
		[]any{"idea-1", "Anônimo", "ana@example.com", "Niterói, RJ", "Bicicletário em cada estação", 0, "", "14/03/2025 12:04:05"},
		api.rows["Ideias"][1],
	)
	require.Equal(t, []int64{1}, api.aligned, "выравниваем найденную заново строку")
	require.Empty(t, api.updates)
}

func TestUpsertIdea_UpdatesExistingRow(t *testing.T) {
	api := newFakeAPI()
	api.rows["Ideias"] = [][]any{
		{"ID"},
		{"idea-0", "Bia"},
		{"idea-1", "Ana", "ana@example.com", "Niterói, RJ", "Bicicletário", 3, "", "01/01/2025 00:00:00"},
	}
	w := newTestWriter(api)

	err := w.UpsertIdea(context.Background(), IdeaRow{
		IdeaID: "idea-1",
		Author: "Ana",
		Likes:  5,
		Comments: []models.Comment{
			{ID: 1, AuthorName: "Bia", Body: "Boa", Replies: []models.Comment{{ID: 2, AuthorName: "Ana", Body: "Valeu"}}},
		},
	})
	require.NoError(t, err)

	require.Equal(t, []string{"Ideias!G3:H3"}, api.updates)
	row := api.rows["Ideias"][2]
	require.Equal(t, "Bia: Boa\n    Ana: Valeu", row[6])
	require.Equal(t, "14/03/2025 12:04:05", row[7])
	require.Equal(t, 3, row[5], "лайки при обновлении не трогаем")
	require.Equal(t, []int64{2}, api.aligned)
}

func TestUpsertIdea_Errors(t *testing.T) {
	api := newFakeAPI()
	api.failRead = true
	require.Error(t, newTestWriter(api).UpsertIdea(context.Background(), IdeaRow{IdeaID: "x"}))

	api = newFakeAPI()
	api.loseAppend = true
	err := newTestWriter(api).UpsertIdea(context.Background(), IdeaRow{IdeaID: "x"})
	require.ErrorIs(t, err, ErrRowNotFound)
}

func TestSyncIdea_UsesIdeaSnapshot(t *testing.T) {
	api := newFakeAPI()
	w := newTestWriter(api)

	idea := models.Idea{
		ID: "idea-9", AuthorName: "Caio", AuthorEmail: "caio@example.com",
		Location: "Recife, PE", Body: "Mais árvores nas calçadas", LikeCount: 1, LikedBy: []string{"uid-ana"},
	}
	require.NoError(t, w.SyncIdea(context.Background(), idea))

	row := api.rows["Ideias"][0]
	require.Equal(t, "idea-9", row[0])
	require.Equal(t, "Caio", row[1])
	require.Equal(t, 1, row[5])
}

// lockedAPI — fakeAPI для параллельных вызовов; чтение уступает планировщику,
// чтобы параллельные upsert успели увидеть одну и ту же таблицу.
type lockedAPI struct {
	mu sync.Mutex
	*fakeAPI
}

func (l *lockedAPI) Values(ctx context.Context, rng string) ([][]any, error) {
	l.mu.Lock()
	rows, err := l.fakeAPI.Values(ctx, rng)
	out := append([][]any(nil), rows...)
	l.mu.Unlock()

	time.Sleep(time.Millisecond)
	return out, err
}

func (l *lockedAPI) Update(ctx context.Context, rng string, values [][]any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fakeAPI.Update(ctx, rng, values)
}

func (l *lockedAPI) Append(ctx context.Context, rng string, values [][]any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fakeAPI.Append(ctx, rng, values)
}

func (l *lockedAPI) AlignRow(ctx context.Context, sheet string, row, columns int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fakeAPI.AlignRow(ctx, sheet, row, columns)
}

func TestUpsertIdea_ConcurrentSameIdeaAppendsOnce(t *testing.T) {
	api := &lockedAPI{fakeAPI: newFakeAPI()}
	w := newTestWriter(api)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(likes int) {
			defer wg.Done()
			errs <- w.UpsertIdea(context.Background(), IdeaRow{IdeaID: "idea-1", Author: "Ana", Likes: likes})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	require.Len(t, api.rows["Ideias"], 1, "одна строка на идею")
	require.Len(t, api.updates, 7)
}

func TestAppendSignup(t *testing.T) {
	api := newFakeAPI()
	w := newTestWriter(api)

	require.NoError(t, w.AppendSignup(context.Background(), Signup{
		Name: "Duda", Email: "duda@example.com", City: "Salvador, BA", Message: "Quero ajudar",
	}))

	require.Equal(t,
		[][]any{{"Duda", "duda@example.com", "Salvador, BA", "Quero ajudar", "14/03/2025 12:04:05"}},
		api.rows["Emails"],
	)
}

func TestEnsureSheets(t *testing.T) {
	api := newFakeAPI()
	require.NoError(t, newTestWriter(api).EnsureSheets(context.Background()))
	require.Equal(t, []string{"Ideias", "Emails"}, api.ensured)
}

// fakeSheetsServer — минимальный Sheets v4 REST для проверки запросов Google.
type fakeSheetsServer struct {
	mu      sync.Mutex
	batches []map[string]any
}

func (s *fakeSheetsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/values/Ideias!A:H"):
		_, _ = w.Write([]byte(`{"range":"Ideias!A1:H2","majorDimension":"ROWS","values":[["ID","Autor"],["idea-1","Ana"]]}`))
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/spreadsheets/sid"):
		_, _ = w.Write([]byte(`{"spreadsheetId":"sid","sheets":[{"properties":{"sheetId":0,"title":"Ideias"}},{"properties":{"sheetId":42,"title":"Emails"}}]}`))
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":batchUpdate"):
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		s.mu.Lock()
		s.batches = append(s.batches, body)
		s.mu.Unlock()

		_, _ = w.Write([]byte(`{"spreadsheetId":"sid","replies":[{"addSheet":{"properties":{"sheetId":77,"title":"Novo"}}}]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"not found"}}`))
	}
}

func newTestGoogle(t *testing.T) (*Google, *fakeSheetsServer) {
	t.Helper()

	fake := &fakeSheetsServer{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	g, err := newGoogle(context.Background(), "sid",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	return g, fake
}

func TestGoogle_Values(t *testing.T) {
	g, _ := newTestGoogle(t)

	rows, err := g.Values(context.Background(), "Ideias!A:H")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "idea-1", rows[1][0])
}

func TestGoogle_AlignRow_SendsZeroSheetID(t *testing.T) {
	g, fake := newTestGoogle(t)

	require.NoError(t, g.AlignRow(context.Background(), "Ideias", 3, ideaColumns))
	require.Len(t, fake.batches, 1)

	reqs := fake.batches[0]["requests"].([]any)
	rng := reqs[0].(map[string]any)["repeatCell"].(map[string]any)["range"].(map[string]any)

	require.Contains(t, rng, "sheetId", "нулевой sheetId должен уйти явно")
	require.EqualValues(t, 0, rng["sheetId"])
	require.EqualValues(t, 3, rng["startRowIndex"])
	require.EqualValues(t, 4, rng["endRowIndex"])
	require.EqualValues(t, 8, rng["endColumnIndex"])
}

func TestGoogle_EnsureSheet(t *testing.T) {
	g, fake := newTestGoogle(t)

	// Лист есть -> без batchUpdate.
	require.NoError(t, g.EnsureSheet(context.Background(), "Emails"))
	require.Empty(t, fake.batches)

	require.NoError(t, g.EnsureSheet(context.Background(), "Novo"))
	require.Len(t, fake.batches, 1)

	id, err := g.sheetID(context.Background(), "Novo")
	require.NoError(t, err)
	require.Equal(t, int64(77), id)
}
