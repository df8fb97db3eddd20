package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/alem-hub/roster/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// PRESENTER
// Renders console output. Every method writes whole lines.
// ══════════════════════════════════════════════════════════════════════════════

const (
	tableWidth   = 100
	detailsWidth = 60

	colID    = 12
	colName  = 20
	colEmail = 30
	colAge   = 5
	colGPA   = 8
)

// Presenter writes formatted output to the console.
type Presenter struct {
	w      io.Writer
	colors palette
}

// NewPresenter creates a Presenter. color enables ANSI escape codes.
func NewPresenter(w io.Writer, color bool) *Presenter {
	return &Presenter{w: w, colors: palette{enabled: color}}
}

func (p *Presenter) println(s string) {
	fmt.Fprintln(p.w, s)
}

// ─────────────────────────────────────────────────────────────────────────────
// Chrome
// ─────────────────────────────────────────────────────────────────────────────

// Banner prints the welcome banner.
func (p *Presenter) Banner() {
	p.println(p.colors.paint("╔═══════════════════════════════════════════════════════════╗", ansiBrightBlue, ansiBold))
	p.println(p.colors.paint("║               STUDENT MANAGEMENT SYSTEM                   ║", ansiBrightWhite))
	p.println(p.colors.paint("║              Console-Based Application                    ║", ansiBrightWhite))
	p.println(p.colors.paint("╚═══════════════════════════════════════════════════════════╝", ansiBrightBlue, ansiBold))
}

var menuItems = []string{
	"1. Create New Student",
	"2. View All Students",
	"3. View Student Details",
	"4. Update Student Information",
	"5. Delete Student",
	"6. Search Students",
	"7. Assign Course to Student",
	"8. Remove Course from Student",
	"9. View Statistics",
	"0. Exit",
}

// MainMenu prints the numbered main menu.
func (p *Presenter) MainMenu() {
	p.println("")
	p.println(p.colors.paint("╔═══════════════════════════════════════════════════════════╗", ansiBrightBlue, ansiBold))
	p.println(p.colors.paint("║"+runewidth.FillRight("                     MAIN MENU", 59)+"║", ansiBrightWhite))
	p.println(p.colors.paint("╠═══════════════════════════════════════════════════════════╣", ansiBrightBlue, ansiBold))
	for _, item := range menuItems {
		p.println(p.colors.paint("║"+runewidth.FillRight("  "+item, 59)+"║", ansiBrightGreen))
	}
	p.println(p.colors.paint("╚═══════════════════════════════════════════════════════════╝", ansiBrightBlue, ansiBold))
}

// UpdateMenu prints the field sub-menu of the update screen.
func (p *Presenter) UpdateMenu() {
	p.println("")
	p.println(p.colors.paint("Select field to update:", ansiBrightWhite))
	for _, item := range []string{"1. First Name", "2. Last Name", "3. Email", "4. Age"} {
		p.println(p.colors.paint(item, ansiBrightGreen))
	}
}

// Title prints a section header such as "--- ALL STUDENTS ---".
func (p *Presenter) Title(name string) {
	p.println("")
	p.println(p.colors.paint("--- "+name+" ---", ansiBrightCyan, ansiBold))
}

// Prompt prints a prompt without a trailing newline.
func (p *Presenter) Prompt(text string) {
	fmt.Fprint(p.w, p.colors.paint(text, ansiCyanBold))
}

// Line prints plain text.
func (p *Presenter) Line(format string, args ...any) {
	p.println(fmt.Sprintf(format, args...))
}

// Success prints a green confirmation.
func (p *Presenter) Success(format string, args ...any) {
	p.println(p.colors.paint("✓ "+fmt.Sprintf(format, args...), ansiGreenBold))
}

// Error prints a red error line.
func (p *Presenter) Error(format string, args ...any) {
	p.println(p.colors.paint("✗ "+fmt.Sprintf(format, args...), ansiRedBold))
}

// Warning prints a yellow notice.
func (p *Presenter) Warning(format string, args ...any) {
	p.println(p.colors.paint(fmt.Sprintf(format, args...), ansiYellowBold))
}

// Highlight prints bold white text.
func (p *Presenter) Highlight(format string, args ...any) {
	p.println(p.colors.paint(fmt.Sprintf(format, args...), ansiBrightWhite))
}

// PressEnter prints the pause prompt between actions.
func (p *Presenter) PressEnter() {
	p.println("")
	p.println(p.colors.paint("Press Enter to continue...", ansiYellowBold))
}

func (p *Presenter) rule(width int) {
	p.println(p.colors.paint(strings.Repeat("=", width), ansiBrightBlue))
}

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

// StudentTable prints students as an ID / Name / Email / Age / GPA table.
func (p *Presenter) StudentTable(students []query.StudentView) {
	p.println("")
	p.rule(tableWidth)
	header := strings.Join([]string{
		runewidth.FillRight("ID", colID),
		runewidth.FillRight("Name", colName),
		runewidth.FillRight("Email", colEmail),
		runewidth.FillRight("Age", colAge),
		runewidth.FillRight("GPA", colGPA),
	}, " ")
	p.println(p.colors.paint(header, ansiBrightWhite))
	p.rule(tableWidth)

	for _, s := range students {
		p.println(tableRow(s))
	}
	p.rule(tableWidth)
}

// tableRow pads by display width; values wider than a column push the rest right.
func tableRow(s query.StudentView) string {
	return strings.Join([]string{
		runewidth.FillRight(s.ID, colID),
		runewidth.FillRight(s.FullName(), colName),
		runewidth.FillRight(s.Email, colEmail),
		runewidth.FillRight(fmt.Sprintf("%d", s.Age), colAge),
		fmt.Sprintf("%.2f", s.GPA),
	}, " ")
}

// StudentDetails prints the full record including letter grades.
func (p *Presenter) StudentDetails(s query.StudentView) {
	p.Line("Student ID: %s", s.ID)
	p.Line("Name: %s", s.FullName())
	p.Line("Email: %s", s.Email)
	p.Line("Age: %d", s.Age)
	p.Line("GPA: %.2f", s.GPA)
	p.Line("Enrolled Courses:")
	if !s.HasCourses() {
		p.Line("  No courses enrolled")
		return
	}
	for _, c := range s.Courses {
		p.Line("  - %s - %s (Credits: %d, Grade: %.1f%%, Letter: %s)", c.Code, c.Name, c.Credits, c.Grade, c.Letter)
	}
}

// StudentCard prints StudentDetails between horizontal rules.
func (p *Presenter) StudentCard(s query.StudentView) {
	p.println("")
	p.rule(detailsWidth)
	p.StudentDetails(s)
	p.rule(detailsWidth)
}

// CourseList prints the short enrolled-course list of the remove screen.
func (p *Presenter) CourseList(s query.StudentView) {
	p.Line("Enrolled Courses:")
	for _, c := range s.Courses {
		p.Line("  - %s: %s", c.Code, c.Name)
	}
}

// Statistics prints the statistics screen.
func (p *Presenter) Statistics(stats *query.Statistics) {
	p.println("")
	p.rule(detailsWidth)
	p.Highlight("Total Students: %d", stats.TotalStudents)
	p.Highlight("Students with Courses: %d", stats.StudentsWithCourses)
	p.Highlight("Average GPA: %.2f", stats.AverageGPA)
	p.println("")
	p.Highlight("Top Students (GPA >= %.1f):", query.HonorGPAThreshold)
	if len(stats.TopStudents) == 0 {
		p.Warning("  No students with GPA >= %.1f", query.HonorGPAThreshold)
	}
	for _, s := range stats.TopStudents {
		p.Line("  - %s (ID: %s, GPA: %.2f)", s.FullName(), s.ID, s.GPA)
	}
	p.rule(detailsWidth)
}
