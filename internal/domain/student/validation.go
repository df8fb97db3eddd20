package student

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/alem-hub/roster/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// FIELD CONSTRAINTS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// MinAge - минимальный допустимый возраст.
	MinAge = 1
	// MaxAge - максимальный допустимый возраст.
	MaxAge = 149

	// MinCredits - минимальное число кредитов курса.
	MinCredits = 1
	// MaxCredits - максимальное число кредитов курса.
	MaxCredits = 10

	// MinGrade - минимальная оценка в процентах.
	MinGrade = 0.0
	// MaxGrade - максимальная оценка в процентах.
	MaxGrade = 100.0
)

var (
	emailPattern      = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	namePattern       = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	courseCodePattern = regexp.MustCompile(`^[A-Z]{2,4}[0-9]{3}$`)
)

// ══════════════════════════════════════════════════════════════════════════════
// VALIDATORS
// Используются и мутаторами модели, и консолью для повторного запроса ввода.
// ══════════════════════════════════════════════════════════════════════════════

// ValidateName проверяет имя или фамилию: только буквы и пробелы, не пустое.
// field - человекочитаемое название поля для сообщения ("First name").
func ValidateName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return shared.NewValidationError("student", "ValidateName", field, shared.ErrEmptyValue,
			fmt.Sprintf("%s cannot be empty", field))
	}
	if !namePattern.MatchString(value) {
		return shared.NewValidationError("student", "ValidateName", field, shared.ErrInvalidFormat,
			fmt.Sprintf("%s must contain only letters and spaces", field))
	}
	return nil
}

// ValidateEmail проверяет формат local@domain.tld.
func ValidateEmail(value string) error {
	if strings.TrimSpace(value) == "" {
		return shared.NewValidationError("student", "ValidateEmail", "email", shared.ErrEmptyValue,
			"Email cannot be empty")
	}
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return shared.NewValidationError("student", "ValidateEmail", "email", shared.ErrInvalidFormat,
			fmt.Sprintf("Invalid email format: %s", value))
	}
	return nil
}

// ValidateAge проверяет, что возраст в диапазоне [MinAge, MaxAge].
func ValidateAge(age int) error {
	if age < MinAge || age > MaxAge {
		return shared.NewValidationError("student", "ValidateAge", "age", shared.ErrValueOutOfRange,
			fmt.Sprintf("Age must be between %d and %d", MinAge, MaxAge))
	}
	return nil
}

// ValidateCourseCode проверяет код курса: 2-4 заглавные буквы и 3 цифры.
// Код должен быть уже нормализован (см. shared.NormalizeCourseCode).
func ValidateCourseCode(code string) error {
	if !courseCodePattern.MatchString(code) {
		return shared.NewValidationError("course", "ValidateCode", "code", shared.ErrInvalidFormat,
			fmt.Sprintf("Invalid course code: %q (expected 2-4 letters followed by 3 digits, e.g. CS101)", code))
	}
	return nil
}

// ValidateCourseName проверяет, что название курса не пустое.
func ValidateCourseName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("course", "ValidateName", "name", shared.ErrEmptyValue,
			"Course name cannot be empty")
	}
	return nil
}

// ValidateCredits проверяет число кредитов в диапазоне [MinCredits, MaxCredits].
func ValidateCredits(credits int) error {
	if credits < MinCredits || credits > MaxCredits {
		return shared.NewValidationError("course", "ValidateCredits", "credits", shared.ErrValueOutOfRange,
			fmt.Sprintf("Credits must be between %d and %d", MinCredits, MaxCredits))
	}
	return nil
}

// ValidateGrade проверяет оценку в диапазоне [MinGrade, MaxGrade].
func ValidateGrade(grade float64) error {
	if math.IsNaN(grade) || grade < MinGrade || grade > MaxGrade {
		return shared.NewValidationError("course", "ValidateGrade", "grade", shared.ErrValueOutOfRange,
			fmt.Sprintf("Grade must be between %g and %g", MinGrade, MaxGrade))
	}
	return nil
}
