package service

import (
	"sync"
	"time"
)

// idGenerator выдаёт ID комментариев: миллисекунды Unix, строго возрастающие в пределах процесса.
// Уникальность внутри дерева идеи дополнительно проверяет вызывающий через taken.
type idGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newIDGenerator(now func() time.Time) *idGenerator {
	return &idGenerator{now: now}
}

// Next возвращает max(now_ms, last+1), увеличенный до первого значения, для которого taken == false.
func (g *idGenerator) Next(taken func(int64) bool) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}

	for taken != nil && taken(id) {
		id++
	}

	g.last = id

	return id
}
