package student

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/alem-hub/roster/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATE: ROSTER
// ══════════════════════════════════════════════════════════════════════════════

// Update fields accepted by Roster.UpdateStudent (без учёта регистра).
const (
	FieldFirstName = "firstname"
	FieldLastName  = "lastname"
	FieldEmail     = "email"
	FieldAge       = "age"
)

// Roster владеет всеми студентами и выдаёт им идентификаторы.
// Все методы безопасны для конкурентного использования.
// Наружу отдаются только копии студентов.
type Roster struct {
	mu           sync.RWMutex
	students     map[shared.StudentID]*Student
	nextSequence int
}

// NewRoster создаёт пустой реестр.
func NewRoster() *Roster {
	return &Roster{
		students:     make(map[shared.StudentID]*Student),
		nextSequence: shared.FirstStudentSequence,
	}
}

// RestoreRoster восстанавливает реестр из снимка.
// Счётчик никогда не опускается ниже уже выданных номеров.
func RestoreRoster(snapshot Snapshot) (*Roster, error) {
	r := NewRoster()
	if snapshot.NextSequence > r.nextSequence {
		r.nextSequence = snapshot.NextSequence
	}

	for _, rec := range snapshot.Students {
		s, err := RestoreStudent(rec)
		if err != nil {
			return nil, err
		}
		if _, exists := r.students[s.id]; exists {
			return nil, shared.NewDomainError("roster", "Restore", shared.ErrAlreadyExists,
				fmt.Sprintf("duplicate student ID in snapshot: %s", s.id))
		}
		r.students[s.id] = s
		if seq, ok := s.id.Sequence(); ok && seq >= r.nextSequence {
			r.nextSequence = seq + 1
		}
	}
	return r, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD
// ─────────────────────────────────────────────────────────────────────────────

// CreateStudent создаёт студента и возвращает выданный ID.
// При ошибке валидации номер не расходуется и студент не сохраняется.
func (r *Roster) CreateStudent(firstName, lastName, email string, age int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, next := r.candidateID()
	s, err := NewStudent(id.String(), firstName, lastName, email, age)
	if err != nil {
		return "", err
	}

	r.students[id] = s
	r.nextSequence = next
	return id.String(), nil
}

// candidateID подбирает следующий свободный ID.
// Номер увеличивается на каждом кандидате; занятые ID пропускаются.
// Возвращает ID и значение счётчика после него.
func (r *Roster) candidateID() (shared.StudentID, int) {
	seq := r.nextSequence
	for {
		id := shared.NewStudentIDFromSequence(seq)
		seq++
		if _, exists := r.students[id]; !exists {
			return id, seq
		}
	}
}

// GetStudent возвращает копию студента.
// Возвращает NotFound ошибку, если ID отсутствует.
func (r *Roster) GetStudent(id string) (*Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, err := r.find("GetStudent", id)
	if err != nil {
		return nil, err
	}
	return s.Clone(), nil
}

// UpdateStudent меняет одно поле студента.
// field: firstname, lastname, email или age (без учёта регистра).
func (r *Roster) UpdateStudent(id, field, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.find("UpdateStudent", id)
	if err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(field)) {
	case FieldFirstName:
		return s.SetFirstName(value)
	case FieldLastName:
		return s.SetLastName(value)
	case FieldEmail:
		return s.SetEmail(value)
	case FieldAge:
		age, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return shared.NewValidationError("roster", "UpdateStudent", FieldAge, shared.ErrInvalidInput,
				fmt.Sprintf("Invalid value for field %s: %s", FieldAge, value))
		}
		return s.SetAge(age)
	default:
		return shared.NewValidationError("roster", "UpdateStudent", field, shared.ErrInvalidInput,
			fmt.Sprintf("Invalid field: %s", field))
	}
}

// DeleteStudent удаляет студента. Возвращает false, если ID отсутствует.
func (r *Roster) DeleteStudent(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := shared.StudentID(id)
	if _, ok := r.students[key]; !ok {
		return false
	}
	delete(r.students, key)
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

// AssignCourse зачисляет студента на курс.
// Повторное назначение того же кода - успешный no-op.
func (r *Roster) AssignCourse(studentID, code, name string, credits int, grade float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.find("AssignCourse", studentID)
	if err != nil {
		return err
	}
	course, err := NewCourse(code, name, credits, grade)
	if err != nil {
		return err
	}
	s.AddCourse(course)
	return nil
}

// RemoveCourse отчисляет студента с курса. Неизвестный код - не ошибка.
func (r *Roster) RemoveCourse(studentID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.find("RemoveCourse", studentID)
	if err != nil {
		return err
	}
	s.RemoveCourse(code)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Queries
// ─────────────────────────────────────────────────────────────────────────────

// SearchStudents ищет подстроку term (без учёта регистра) в ID, имени,
// фамилии и email. Пустой term реестр не отвергает: он совпадает со всеми.
func (r *Roster) SearchStudents(term string) []*Student {
	lower := strings.ToLower(term)
	return r.collect(func(s *Student) bool {
		return s.matches(lower)
	})
}

// GetAllStudents возвращает копии всех студентов.
func (r *Roster) GetAllStudents() []*Student {
	return r.collect(func(*Student) bool { return true })
}

// GetStudentsByMinGPA возвращает студентов с GPA ≥ threshold.
func (r *Roster) GetStudentsByMinGPA(threshold float64) []*Student {
	return r.collect(func(s *Student) bool {
		return s.gpa >= threshold
	})
}

// TotalStudents возвращает число студентов.
func (r *Roster) TotalStudents() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.students)
}

// StudentExists проверяет наличие студента.
func (r *Roster) StudentExists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.students[shared.StudentID(id)]
	return ok
}

// NextSequence возвращает номер, с которого начнётся подбор следующего ID.
func (r *Roster) NextSequence() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextSequence
}

// Snapshot возвращает полное состояние реестра для сохранения.
func (r *Roster) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]StudentRecord, 0, len(r.students))
	for _, s := range r.students {
		records = append(records, s.Record())
	}
	sort.Slice(records, func(i, j int) bool {
		return shared.StudentID(records[i].ID).Less(shared.StudentID(records[j].ID))
	})
	return Snapshot{
		NextSequence: r.nextSequence,
		Students:     records,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// find ищет студента по ID. Вызывающий держит блокировку.
func (r *Roster) find(op, id string) (*Student, error) {
	s, ok := r.students[shared.StudentID(id)]
	if !ok {
		return nil, shared.NewNotFoundError("Student", op, id)
	}
	return s, nil
}

// collect возвращает копии подходящих студентов, упорядоченные по ID.
func (r *Roster) collect(keep func(*Student) bool) []*Student {
	r.mu.RLock()
	out := make([]*Student, 0, len(r.students))
	for _, s := range r.students {
		if keep(s) {
			out = append(out, s.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].id.Less(out[j].id)
	})
	return out
}
