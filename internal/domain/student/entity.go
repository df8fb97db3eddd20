package student

import (
	"fmt"
	"strings"

	"github.com/alem-hub/roster/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student - центральная сущность реестра.
// Все поля закрыты: изменения проходят через валидирующие мутаторы.
type Student struct {
	// id - идентификатор, выданный реестром. Не меняется после создания.
	id shared.StudentID

	firstName string
	lastName  string
	email     string
	age       int

	// courses - курсы в порядке добавления, коды уникальны.
	courses []Course

	// gpa - производное значение, пересчитывается после каждого изменения courses.
	gpa float64
}

// NewStudent создаёт студента с полной валидацией всех полей.
func NewStudent(id, firstName, lastName, email string, age int) (*Student, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.NewValidationError("student", "New", "id", shared.ErrInvalidID,
			"Student ID cannot be empty")
	}
	if err := ValidateName("First name", firstName); err != nil {
		return nil, err
	}
	if err := ValidateName("Last name", lastName); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidateAge(age); err != nil {
		return nil, err
	}

	return &Student{
		id:        shared.StudentID(id),
		firstName: strings.TrimSpace(firstName),
		lastName:  strings.TrimSpace(lastName),
		email:     strings.TrimSpace(email),
		age:       age,
		courses:   make([]Course, 0),
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Accessors
// ─────────────────────────────────────────────────────────────────────────────

// ID возвращает идентификатор студента.
func (s *Student) ID() string { return s.id.String() }

// FirstName возвращает имя.
func (s *Student) FirstName() string { return s.firstName }

// LastName возвращает фамилию.
func (s *Student) LastName() string { return s.lastName }

// FullName возвращает имя и фамилию через пробел.
func (s *Student) FullName() string {
	return s.firstName + " " + s.lastName
}

// Email возвращает email.
func (s *Student) Email() string { return s.email }

// Age возвращает возраст.
func (s *Student) Age() int { return s.age }

// GPA возвращает последнее вычисленное значение среднего балла.
// Чтение никогда не вызывает пересчёт.
func (s *Student) GPA() float64 { return s.gpa }

// Courses возвращает копию списка курсов.
func (s *Student) Courses() []Course {
	out := make([]Course, len(s.courses))
	copy(out, s.courses)
	return out
}

// CourseCount возвращает число курсов.
func (s *Student) CourseCount() int { return len(s.courses) }

// HasCourse проверяет, зачислен ли студент на курс с указанным кодом.
func (s *Student) HasCourse(code string) bool {
	_, ok := s.Course(code)
	return ok
}

// Course возвращает копию курса по коду.
func (s *Student) Course(code string) (Course, bool) {
	needle := shared.NormalizeCourseCode(code)
	for _, c := range s.courses {
		if c.code.Equal(needle) {
			return c, true
		}
	}
	return Course{}, false
}

// ─────────────────────────────────────────────────────────────────────────────
// Mutators
// ─────────────────────────────────────────────────────────────────────────────

// SetFirstName меняет имя.
func (s *Student) SetFirstName(value string) error {
	if err := ValidateName("First name", value); err != nil {
		return err
	}
	s.firstName = strings.TrimSpace(value)
	return nil
}

// SetLastName меняет фамилию.
func (s *Student) SetLastName(value string) error {
	if err := ValidateName("Last name", value); err != nil {
		return err
	}
	s.lastName = strings.TrimSpace(value)
	return nil
}

// SetEmail меняет email.
func (s *Student) SetEmail(value string) error {
	if err := ValidateEmail(value); err != nil {
		return err
	}
	s.email = strings.TrimSpace(value)
	return nil
}

// SetAge меняет возраст.
func (s *Student) SetAge(value int) error {
	if err := ValidateAge(value); err != nil {
		return err
	}
	s.age = value
	return nil
}

// AddCourse добавляет курс и пересчитывает GPA.
// Если курс nil или курс с таким кодом уже есть, ничего не происходит.
// Возвращает true, если курс был добавлен.
func (s *Student) AddCourse(course *Course) bool {
	if course == nil {
		return false
	}
	for _, c := range s.courses {
		if c.Equal(*course) {
			return false
		}
	}
	s.courses = append(s.courses, *course)
	s.CalculateGPA()
	return true
}

// RemoveCourse удаляет курсы с указанным кодом.
// GPA пересчитывается всегда, даже если ничего не удалено.
// Возвращает true, если курс был удалён.
func (s *Student) RemoveCourse(code string) bool {
	needle := shared.NormalizeCourseCode(code)
	kept := s.courses[:0]
	removed := false
	for _, c := range s.courses {
		if c.code.Equal(needle) {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	s.courses = kept
	s.CalculateGPA()
	return removed
}

// CalculateGPA пересчитывает средний балл и возвращает его.
// GPA = Σ(gradePoint × credits) / Σ(credits), 0.0 если кредитов нет.
// Без округления: форматирование - забота слоя представления.
func (s *Student) CalculateGPA() float64 {
	var points float64
	var credits int
	for _, c := range s.courses {
		points += c.GradePoint() * float64(c.credits)
		credits += c.credits
	}
	if credits == 0 {
		s.gpa = 0.0
		return s.gpa
	}
	s.gpa = points / float64(credits)
	return s.gpa
}

// ─────────────────────────────────────────────────────────────────────────────
// Copies & Records
// ─────────────────────────────────────────────────────────────────────────────

// Clone возвращает глубокую копию студента.
func (s *Student) Clone() *Student {
	clone := *s
	clone.courses = s.Courses()
	return &clone
}

// matches проверяет, содержится ли term (без учёта регистра) в ID, имени,
// фамилии или email. term должен быть уже приведён к нижнему регистру.
func (s *Student) matches(lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s.id.String()), lowerTerm) ||
		strings.Contains(strings.ToLower(s.firstName), lowerTerm) ||
		strings.Contains(strings.ToLower(s.lastName), lowerTerm) ||
		strings.Contains(strings.ToLower(s.email), lowerTerm)
}

// Record возвращает представление студента для хранилища.
func (s *Student) Record() StudentRecord {
	courses := make([]CourseRecord, 0, len(s.courses))
	for _, c := range s.courses {
		courses = append(courses, c.Record())
	}
	return StudentRecord{
		ID:        s.id.String(),
		FirstName: s.firstName,
		LastName:  s.lastName,
		Email:     s.email,
		Age:       s.age,
		Courses:   courses,
	}
}

// RestoreStudent восстанавливает студента из записи хранилища.
// Все поля проходят ту же валидацию, что и при создании; GPA вычисляется заново.
func RestoreStudent(rec StudentRecord) (*Student, error) {
	s, err := NewStudent(rec.ID, rec.FirstName, rec.LastName, rec.Email, rec.Age)
	if err != nil {
		return nil, fmt.Errorf("restore student %s: %w", rec.ID, err)
	}
	for _, cr := range rec.Courses {
		c, err := NewCourse(cr.Code, cr.Name, cr.Credits, cr.Grade)
		if err != nil {
			return nil, fmt.Errorf("restore student %s course %s: %w", rec.ID, cr.Code, err)
		}
		s.AddCourse(c)
	}
	return s, nil
}

// String возвращает краткое описание студента.
func (s *Student) String() string {
	return fmt.Sprintf("%s %s (%s, age %d, GPA %.2f)",
		s.id, s.FullName(), s.email, s.age, s.gpa)
}
