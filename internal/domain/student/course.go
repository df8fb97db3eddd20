package student

import (
	"fmt"
	"strings"

	"github.com/alem-hub/roster/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// LetterGrade - буквенная оценка курса.
type LetterGrade string

const (
	GradeA LetterGrade = "A"
	GradeB LetterGrade = "B"
	GradeC LetterGrade = "C"
	GradeD LetterGrade = "D"
	GradeF LetterGrade = "F"
)

// LetterFor вычисляет буквенную оценку по проценту.
// Пороги: ≥90 A, ≥80 B, ≥70 C, ≥60 D, иначе F.
func LetterFor(grade float64) LetterGrade {
	switch {
	case grade >= 90:
		return GradeA
	case grade >= 80:
		return GradeB
	case grade >= 70:
		return GradeC
	case grade >= 60:
		return GradeD
	default:
		return GradeF
	}
}

// Point возвращает grade point (4.0 - 0.0) для буквенной оценки.
func (l LetterGrade) Point() float64 {
	switch l {
	case GradeA:
		return 4.0
	case GradeB:
		return 3.0
	case GradeC:
		return 2.0
	case GradeD:
		return 1.0
	default:
		return 0.0
	}
}

// String возвращает строковое представление оценки.
func (l LetterGrade) String() string {
	return string(l)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY: COURSE
// ══════════════════════════════════════════════════════════════════════════════

// Course - запись о зачислении студента на курс.
// Два курса равны, если совпадают их коды.
type Course struct {
	code    shared.CourseCode
	name    string
	credits int
	grade   float64
}

// NewCourse создаёт курс с полной валидацией.
// Код нормализуется к верхнему регистру до проверки формата.
func NewCourse(code, name string, credits int, grade float64) (*Course, error) {
	normalized := shared.NormalizeCourseCode(code)
	if err := ValidateCourseCode(normalized.String()); err != nil {
		return nil, err
	}
	if err := ValidateCourseName(name); err != nil {
		return nil, err
	}
	if err := ValidateCredits(credits); err != nil {
		return nil, err
	}
	if err := ValidateGrade(grade); err != nil {
		return nil, err
	}

	return &Course{
		code:    normalized,
		name:    strings.TrimSpace(name),
		credits: credits,
		grade:   grade,
	}, nil
}

// Code возвращает код курса.
func (c Course) Code() string { return c.code.String() }

// Name возвращает название курса.
func (c Course) Name() string { return c.name }

// Credits возвращает число кредитов.
func (c Course) Credits() int { return c.credits }

// Grade возвращает оценку в процентах.
func (c Course) Grade() float64 { return c.grade }

// LetterGrade возвращает буквенную оценку.
func (c Course) LetterGrade() LetterGrade {
	return LetterFor(c.grade)
}

// GradePoint возвращает grade point курса.
func (c Course) GradePoint() float64 {
	return c.LetterGrade().Point()
}

// SetName меняет название курса.
func (c *Course) SetName(name string) error {
	if err := ValidateCourseName(name); err != nil {
		return err
	}
	c.name = strings.TrimSpace(name)
	return nil
}

// SetCredits меняет число кредитов.
func (c *Course) SetCredits(credits int) error {
	if err := ValidateCredits(credits); err != nil {
		return err
	}
	c.credits = credits
	return nil
}

// SetGrade меняет оценку.
func (c *Course) SetGrade(grade float64) error {
	if err := ValidateGrade(grade); err != nil {
		return err
	}
	c.grade = grade
	return nil
}

// Equal сравнивает курсы по коду.
func (c Course) Equal(other Course) bool {
	return c.code.Equal(other.code)
}

// String возвращает краткое описание курса.
func (c Course) String() string {
	return fmt.Sprintf("%s - %s (%d credits, %.1f%%, %s)",
		c.code, c.name, c.credits, c.grade, c.LetterGrade())
}

// Record возвращает представление курса для хранилища.
func (c Course) Record() CourseRecord {
	return CourseRecord{
		Code:    c.code.String(),
		Name:    c.name,
		Credits: c.credits,
		Grade:   c.grade,
	}
}
