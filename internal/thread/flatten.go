package thread

import (
	"strings"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
)

// indentUnit — отступ одного уровня вложенности в текстовом виде.
const indentUnit = "    "

// Flatten превращает дерево в текст для ячейки таблицы:
// по строке "автор: текст" на комментарий, обход в глубину,
// ответы на четыре пробела глубже родителя.
// Преобразование одностороннее: обратно дерево не восстанавливается.
func Flatten(tree []models.Comment) string {
	var b strings.Builder

	Walk(tree, func(c models.Comment, depth int) bool {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(strings.Repeat(indentUnit, depth))
		b.WriteString(c.AuthorName)
		b.WriteString(": ")
		b.WriteString(c.Body)

		return true
	})

	return b.String()
}
