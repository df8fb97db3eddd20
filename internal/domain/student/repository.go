package student

import (
	"context"

	"github.com/alem-hub/roster/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOUNDARY INTERFACES
// Эти интерфейсы определяют контракт с внешними коллабораторами.
// Реализации находятся в infrastructure.
// ══════════════════════════════════════════════════════════════════════════════

// Store - граница персистентности реестра.
// Хранилище работает со снимками целиком: формат на диске ядру неизвестен.
type Store interface {
	// Load возвращает сохранённый снимок.
	// Если состояния ещё нет, возвращает пустой Snapshot без ошибки.
	Load(ctx context.Context) (Snapshot, error)

	// Save атомарно заменяет сохранённое состояние снимком.
	// Ошибка записи оборачивает shared.ErrIO.
	Save(ctx context.Context, snapshot Snapshot) error

	// Close освобождает ресурсы хранилища.
	Close() error
}

// AuditLogger - приёмник журнала действий.
// Ошибка журналирования никогда не откатывает изменение реестра.
type AuditLogger interface {
	// LogAction записывает действие и его детали.
	LogAction(ctx context.Context, action shared.AuditAction, details string) error
}

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT
// Плоское представление реестра для хранилищ. GPA не хранится: он производный.
// ══════════════════════════════════════════════════════════════════════════════

// CourseRecord - сохраняемое представление курса.
type CourseRecord struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Credits int     `json:"credits"`
	Grade   float64 `json:"grade"`
}

// StudentRecord - сохраняемое представление студента.
type StudentRecord struct {
	ID        string         `json:"id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	Age       int            `json:"age"`
	Courses   []CourseRecord `json:"courses"`
}

// Snapshot - полное состояние реестра.
type Snapshot struct {
	// NextSequence - следующий номер для генерации ID. 0 означает "не задан".
	NextSequence int `json:"next_sequence"`

	// Students - студенты, упорядоченные по ID.
	Students []StudentRecord `json:"students"`
}

// IsEmpty возвращает true, если снимок не содержит состояния.
func (s Snapshot) IsEmpty() bool {
	return s.NextSequence == 0 && len(s.Students) == 0
}
