package thread

// Тесты чистых функций дерева комментариев.
//
//  Проверяем:
//  - поиск на любой глубине;
//  - добавление ответа: новый узел последний у родителя, остальные уровни не меняют длину;
//  - каскадное удаление: узел и поддерево исчезают, соседи не меняются;
//  - неизменность входного дерева;
//  - детерминированность Flatten.

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
)

func c(id int64, author string, replies ...models.Comment) models.Comment {
	return models.Comment{
		ID:         id,
		AuthorID:   "uid-" + author,
		AuthorName: author,
		Body:       "text " + author,
		CreatedAt:  time.Unix(id, 0).UTC(),
		Replies:    replies,
	}
}

// sample:
//
//	1 ana
//	  2 bia
//	    3 caio
//	  4 duda
//	5 edu
func sample() []models.Comment {
	return []models.Comment{
		c(1, "ana",
			c(2, "bia", c(3, "caio")),
			c(4, "duda"),
		),
		c(5, "edu"),
	}
}

// replyLens — длины Replies по ID для всех узлов.
func replyLens(tree []models.Comment) map[int64]int {
	out := map[int64]int{}
	Walk(tree, func(c models.Comment, _ int) bool {
		out[c.ID] = len(c.Replies)
		return true
	})
	return out
}

func TestFind_AnyDepth(t *testing.T) {
	tree := sample()

	got, ok := Find(tree, 3)
	require.True(t, ok)
	require.Equal(t, "caio", got.AuthorName)

	_, ok = Find(tree, 99)
	require.False(t, ok)
	require.True(t, Contains(tree, 5))
	require.False(t, Contains(nil, 1))
}

func TestAppend_TopLevelGoesLast(t *testing.T) {
	tree := sample()
	out := Append(tree, c(10, "fabi"))

	require.Len(t, out, 3)
	require.EqualValues(t, 10, out[2].ID)
	require.Len(t, tree, 2, "исходный уровень не меняется")
}

func TestAppendReply_DeepParent(t *testing.T) {
	tree := sample()
	before := replyLens(tree)

	out, err := AppendReply(tree, 3, c(11, "gabi"))
	require.NoError(t, err)

	parent, ok := Find(out, 3)
	require.True(t, ok)
	require.Len(t, parent.Replies, 1)
	require.EqualValues(t, 11, parent.Replies[len(parent.Replies)-1].ID)

	after := replyLens(out)
	for id, n := range before {
		if id == 3 {
			require.Equal(t, n+1, after[id])
			continue
		}
		require.Equal(t, n, after[id], "длина replies у %d не должна меняться", id)
	}

	// Вход не мутирован.
	require.Equal(t, sample(), tree)
}

func TestAppendReply_AppendsAfterExistingReplies(t *testing.T) {
	out, err := AppendReply(sample(), 1, c(12, "hugo"))
	require.NoError(t, err)

	require.Len(t, out[0].Replies, 3)
	require.EqualValues(t, []int64{2, 4, 12}, []int64{out[0].Replies[0].ID, out[0].Replies[1].ID, out[0].Replies[2].ID})
	require.Equal(t, sample()[1], out[1], "соседняя ветка без изменений")
}

func TestAppendReply_MissingParent(t *testing.T) {
	tree := sample()

	out, err := AppendReply(tree, 9999, c(13, "iris"))
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, sample(), out)
}

func TestRemove_CascadesSubtree(t *testing.T) {
	tree := sample()

	out, removed := Remove(tree, 2)
	require.True(t, removed)

	require.False(t, Contains(out, 2))
	require.False(t, Contains(out, 3), "ответ удалённого узла уходит вместе с ним")

	// Соседи и их поддеревья без изменений.
	duda, ok := Find(out, 4)
	require.True(t, ok)
	require.Equal(t, c(4, "duda"), duda)
	require.Equal(t, sample()[1], out[1])

	require.Equal(t, sample(), tree, "вход не мутирован")
}

func TestRemove_TopLevelAndMissing(t *testing.T) {
	out, removed := Remove(sample(), 1)
	require.True(t, removed)
	require.Len(t, out, 1)
	require.EqualValues(t, 5, out[0].ID)
	require.Equal(t, 1, Count(out))

	out, removed = Remove(sample(), 404)
	require.False(t, removed)
	require.Equal(t, sample(), out)
}

func TestRemove_NoGaps(t *testing.T) {
	out, _ := Remove(sample(), 4)
	require.Len(t, out[0].Replies, 1)
	require.EqualValues(t, 2, out[0].Replies[0].ID)
}

func TestWalk_OrderAndStop(t *testing.T) {
	var ids []int64
	var depths []int
	Walk(sample(), func(c models.Comment, depth int) bool {
		ids = append(ids, c.ID)
		depths = append(depths, depth)
		return true
	})
	require.Equal(t, []int64{1, 2, 3, 4, 5}, ids)
	require.Equal(t, []int{0, 1, 2, 1, 0}, depths)

	visited := 0
	Walk(sample(), func(c models.Comment, _ int) bool {
		visited++
		return c.ID != 3
	})
	require.Equal(t, 3, visited)
}

func TestHasAuthor(t *testing.T) {
	tree := sample()

	require.True(t, HasAuthor(tree, "uid-caio"))
	require.True(t, HasAuthor(tree, "uid-edu"))
	require.False(t, HasAuthor(tree, "uid-zeca"))
	require.False(t, HasAuthor(tree, ""), "анонимный автор не совпадает ни с кем")
}

func TestFlatten_IndentedDepthFirst(t *testing.T) {
	want := "ana: text ana\n" +
		"    bia: text bia\n" +
		"        caio: text caio\n" +
		"    duda: text duda\n" +
		"edu: text edu"

	require.Equal(t, want, Flatten(sample()))
	require.Equal(t, Flatten(sample()), Flatten(sample()), "детерминированно")
	require.Equal(t, "", Flatten(nil))
}
