package cli

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alem-hub/roster/internal/application/command"
	"github.com/alem-hub/roster/internal/application/persistence"
	"github.com/alem-hub/roster/internal/application/query"
	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/internal/domain/student"
	"github.com/alem-hub/roster/pkg/logger"
	"github.com/alem-hub/roster/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// WIRING
// ══════════════════════════════════════════════════════════════════════════════

// Session is the per-login audit log.
type Session interface {
	student.AuditLogger
	ID() string
	Close() error
}

// SessionOpener starts the session log for the admin who just logged in.
type SessionOpener func(username string) (Session, error)

// AuditTrail is the audit destination that sessions are attached to.
type AuditTrail interface {
	student.AuditLogger
	Add(name string, sink student.AuditLogger)
}

// Config holds the collaborators of the console.
type Config struct {
	In    io.Reader
	Out   io.Writer
	Color bool

	Roster *student.Roster
	Store  student.Store
	Audit  AuditTrail
	Auth   *Authenticator

	// OpenSession may be nil; actions are then only sent to Audit.
	OpenSession SessionOpener

	Log *logger.Logger
	// Clock defaults to the wall clock.
	Clock timeutil.Clock
}

// App is the interactive console.
type App struct {
	cfg Config
	out *Presenter
	in  *console
	log *logger.Logger

	// Commands
	createStudent *command.CreateStudentHandler
	updateStudent *command.UpdateStudentHandler
	deleteStudent *command.DeleteStudentHandler
	assignCourse  *command.AssignCourseHandler
	removeCourse  *command.RemoveCourseHandler

	// Queries
	getStudent     *query.GetStudentHandler
	listStudents   *query.ListStudentsHandler
	searchStudents *query.SearchStudentsHandler
	statistics     *query.GetStatisticsHandler

	mu           sync.Mutex
	session      Session
	sessionStart time.Time
	shutdownOnce sync.Once
	shutdownErr  error
}

// NewApp wires the command and query handlers around the roster.
func NewApp(cfg Config) *App {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	out := NewPresenter(cfg.Out, cfg.Color)

	deps := command.Dependencies{
		Roster: cfg.Roster,
		Store:  cfg.Store,
		Audit:  cfg.Audit,
		Log:    log,
	}

	return &App{
		cfg: cfg,
		out: out,
		in:  newConsole(cfg.In, out),
		log: log.With(logger.Component("console")),

		createStudent: command.NewCreateStudentHandler(deps),
		updateStudent: command.NewUpdateStudentHandler(deps),
		deleteStudent: command.NewDeleteStudentHandler(deps),
		assignCourse:  command.NewAssignCourseHandler(deps),
		removeCourse:  command.NewRemoveCourseHandler(deps),

		getStudent:     query.NewGetStudentHandler(cfg.Roster),
		listStudents:   query.NewListStudentsHandler(cfg.Roster),
		searchStudents: query.NewSearchStudentsHandler(cfg.Roster),
		statistics:     query.NewGetStatisticsHandler(cfg.Roster),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Run shows the banner, gates on login and serves the menu until the admin
// exits or input closes. The roster is saved before Run returns.
// After too many failed logins Run returns shared.ErrLoginAttemptsExceeded.
func (a *App) Run(ctx context.Context) error {
	a.out.Banner()

	ok, err := a.login(ctx)
	if err == nil && ok {
		err = a.menu(ctx)
	}

	if shutErr := a.Shutdown(context.WithoutCancel(ctx)); shutErr != nil {
		a.log.Warn("final save failed", logger.Err(shutErr))
	}

	switch {
	case err != nil && !errors.Is(err, io.EOF):
		return err
	case err == nil && !ok:
		return shared.ErrLoginAttemptsExceeded
	default:
		return nil
	}
}

// Shutdown saves the roster and closes the session log. Safe to call more
// than once and from another goroutine.
func (a *App) Shutdown(ctx context.Context) error {
	a.shutdownOnce.Do(func() {
		if a.cfg.Store != nil {
			if err := persistence.SaveRoster(ctx, a.cfg.Store, a.cfg.Roster, a.log); err != nil {
				a.out.Error("Error saving data: %s", errMessage(err))
				a.shutdownErr = err
			}
		}
		a.mu.Lock()
		sess, started := a.session, a.sessionStart
		a.mu.Unlock()
		if sess != nil {
			a.log.Info("session ended",
				logger.SessionID(sess.ID()),
				logger.String("duration", timeutil.FormatDuration(a.cfg.Clock.OrSystem()().Sub(started))))
			if err := sess.Close(); err != nil {
				a.log.Warn("session log close failed", logger.Err(err))
			}
		}
	})
	return a.shutdownErr
}

// ─────────────────────────────────────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) login(ctx context.Context) (bool, error) {
	limit := a.cfg.Auth.MaxAttempts()
	a.out.Title("ADMIN LOGIN")

	for attempt := 1; attempt <= limit; attempt++ {
		username, err := a.in.ask("Username: ")
		if err != nil {
			return false, err
		}
		password, err := a.in.ask("Password: ")
		if err != nil {
			return false, err
		}

		authErr := a.cfg.Auth.Authenticate(username, password)
		if authErr == nil {
			a.startSession(username)
			a.audit(ctx, shared.ActionLoginSuccess, shared.UsernameDetails(username))
			a.log.Info("admin logged in", logger.String("username", username))
			a.out.Success("Login successful! Welcome to Student Management System.")
			return true, nil
		}

		a.log.Warn("login rejected", logger.Int("attempt", attempt), logger.Err(authErr))
		a.audit(ctx, shared.ActionLoginFailed, shared.UsernameDetails(username))
		a.out.Error("Invalid credentials. Attempt %d of %d", attempt, limit)
	}

	a.log.Warn("login attempts exhausted", logger.Int("attempts", limit))
	a.out.Error("Login failed. Maximum attempts reached. Exiting...")
	return false, nil
}

func (a *App) startSession(username string) {
	if a.cfg.OpenSession == nil {
		return
	}
	sess, err := a.cfg.OpenSession(username)
	if err != nil {
		a.log.Warn("session log unavailable", logger.Err(err))
		a.out.Warning("Warning: session logging disabled: %s", errMessage(err))
		return
	}
	a.mu.Lock()
	a.session = sess
	a.sessionStart = a.cfg.Clock.OrSystem()()
	a.mu.Unlock()
	a.log.Info("session started", logger.SessionID(sess.ID()))
	if a.cfg.Audit != nil {
		a.cfg.Audit.Add("session", sess)
	}
}

func (a *App) audit(ctx context.Context, action shared.AuditAction, details string) {
	if a.cfg.Audit == nil {
		return
	}
	if err := a.cfg.Audit.LogAction(ctx, action, details); err != nil {
		a.log.Warn("audit failed", logger.Action(action.String()), logger.Err(err))
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MENU
// ══════════════════════════════════════════════════════════════════════════════

func (a *App) menu(ctx context.Context) error {
	actions := map[int]func(context.Context) error{
		1: a.createStudentFlow,
		2: a.listStudentsFlow,
		3: a.viewStudentFlow,
		4: a.updateStudentFlow,
		5: a.deleteStudentFlow,
		6: a.searchStudentsFlow,
		7: a.assignCourseFlow,
		8: a.removeCourseFlow,
		9: a.statisticsFlow,
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		a.out.MainMenu()
		choice, err := a.in.askInt("Enter your choice: ")
		if err != nil {
			return err
		}

		if choice == 0 {
			a.out.Line("")
			a.out.Highlight("Thank you for using Student Management System. Goodbye!")
			return nil
		}

		action, ok := actions[choice]
		if !ok {
			a.out.Error("Invalid choice. Please try again.")
		} else if err := action(ctx); err != nil {
			return err
		}

		a.out.PressEnter()
		if _, err := a.in.readLine(); err != nil {
			return err
		}
	}
}

// readStudent asks for an id and prints the lookup error, if any.
// A nil view with a nil error means the student was not found.
func (a *App) readStudent(ctx context.Context) (*query.StudentView, error) {
	id, err := a.in.ask("Enter Student ID: ")
	if err != nil {
		return nil, err
	}
	view, err := a.getStudent.Handle(ctx, query.GetStudentQuery{StudentID: normalizeID(id)})
	if err != nil {
		a.out.Error("%s", errMessage(err))
		return nil, nil
	}
	return view, nil
}

// reportOutcome surfaces save and audit failures of a committed change.
func (a *App) reportOutcome(o command.Outcome) {
	if o.SaveErr != nil {
		a.out.Warning("Warning: %s", errMessage(o.SaveErr))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// 1. Create
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) createStudentFlow(ctx context.Context) error {
	a.out.Title("CREATE NEW STUDENT")

	first, err := a.in.askValid("First Name: ", func(v string) error {
		return student.ValidateName("First name", v)
	})
	if err != nil {
		return err
	}
	last, err := a.in.askValid("Last Name: ", func(v string) error {
		return student.ValidateName("Last name", v)
	})
	if err != nil {
		return err
	}
	email, err := a.in.askValid("Email: ", student.ValidateEmail)
	if err != nil {
		return err
	}
	age, err := a.in.askValidInt("Age: ", student.ValidateAge)
	if err != nil {
		return err
	}

	res, err := a.createStudent.Handle(ctx, command.CreateStudentCommand{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Age:       age,
	})
	if err != nil {
		a.out.Error("Error creating student: %s", errMessage(err))
		return nil
	}

	a.out.Success("Student created successfully!")
	a.out.Line("  Student ID: %s", res.StudentID)
	a.reportOutcome(res.Outcome)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// 2. List
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) listStudentsFlow(ctx context.Context) error {
	a.out.Title("ALL STUDENTS")

	res, err := a.listStudents.Handle(ctx)
	if err != nil {
		a.out.Error("%s", errMessage(err))
		return nil
	}
	if res.Total == 0 {
		a.out.Warning("No students found in the system.")
		return nil
	}

	a.out.Highlight("Total Students: %d", res.Total)
	a.out.StudentTable(res.Students)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// 3. View
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) viewStudentFlow(ctx context.Context) error {
	a.out.Title("VIEW STUDENT DETAILS")

	view, err := a.readStudent(ctx)
	if err != nil || view == nil {
		return err
	}
	a.out.StudentCard(*view)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// 4. Update
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) updateStudentFlow(ctx context.Context) error {
	a.out.Title("UPDATE STUDENT INFORMATION")

	view, err := a.readStudent(ctx)
	if err != nil || view == nil {
		return err
	}

	a.out.Line("")
	a.out.Highlight("Current Information:")
	a.out.StudentDetails(*view)
	a.out.UpdateMenu()

	choice, err := a.in.askInt("Enter choice: ")
	if err != nil {
		return err
	}

	var field, value string
	switch choice {
	case 1:
		field = student.FieldFirstName
		value, err = a.in.askValid("New First Name: ", func(v string) error {
			return student.ValidateName("First name", v)
		})
	case 2:
		field = student.FieldLastName
		value, err = a.in.askValid("New Last Name: ", func(v string) error {
			return student.ValidateName("Last name", v)
		})
	case 3:
		field = student.FieldEmail
		value, err = a.in.askValid("New Email: ", student.ValidateEmail)
	case 4:
		field = student.FieldAge
		var age int
		age, err = a.in.askValidInt("New Age: ", student.ValidateAge)
		value = strconv.Itoa(age)
	default:
		a.out.Error("Invalid choice.")
		return nil
	}
	if err != nil {
		return err
	}

	res, err := a.updateStudent.Handle(ctx, command.UpdateStudentCommand{
		StudentID: view.ID,
		Field:     field,
		Value:     value,
	})
	if err != nil {
		a.out.Error("Error updating student: %s", errMessage(err))
		return nil
	}

	a.out.Success("Student information updated successfully!")
	a.reportOutcome(res.Outcome)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// 5. Delete
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) deleteStudentFlow(ctx context.Context) error {
	a.out.Title("DELETE STUDENT")

	view, err := a.readStudent(ctx)
	if err != nil || view == nil {
		return err
	}

	a.out.Line("")
	a.out.Highlight("Student to be deleted:")
	a.out.StudentDetails(*view)
	a.out.Line("")

	answer, err := a.in.ask("Are you sure you want to delete this student? (yes/no): ")
	if err != nil {
		return err
	}
	if !confirmed(answer) {
		a.out.Warning("Deletion cancelled.")
		return nil
	}

	res, err := a.deleteStudent.Handle(ctx, command.DeleteStudentCommand{StudentID: view.ID})
	if err != nil {
		a.out.Error("%s", errMessage(err))
		return nil
	}

	a.out.Success("Student deleted successfully!")
	a.reportOutcome(res.Outcome)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// 6. Search
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) searchStudentsFlow(ctx context.Context) error {
	a.out.Title("SEARCH STUDENTS")

	term, err := a.in.ask("Enter search term (ID, name, or email): ")
	if err != nil {
		return err
	}

	res, err := a.searchStudents.Handle(ctx, query.SearchStudentsQuery{Term: term})
	if err != nil {
		a.out.Error("%s.", errMessage(err))
		return nil
	}
	if len(res.Students) == 0 {
		a.out.Warning("No students found matching: %s", res.Term)
		return nil
	}

	a.out.Line("")
	a.out.Highlight("Found %d student(s):", len(res.Students))
	a.out.StudentTable(res.Students)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// 7. Assign course
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) assignCourseFlow(ctx context.Context) error {
	a.out.Title("ASSIGN COURSE TO STUDENT")

	view, err := a.readStudent(ctx)
	if err != nil || view == nil {
		return err
	}
	a.out.Line("")
	a.out.Highlight("Student: %s", view.FullName())

	code, err := a.in.askValid("Course Code (e.g., CS101, MATH201): ", func(v string) error {
		return student.ValidateCourseCode(shared.NormalizeCourseCode(v).String())
	})
	if err != nil {
		return err
	}
	name, err := a.in.askValid("Course Name: ", student.ValidateCourseName)
	if err != nil {
		return err
	}
	credits, err := a.in.askValidInt("Credits (1-10): ", student.ValidateCredits)
	if err != nil {
		return err
	}
	grade, err := a.in.askValidFloat("Grade (0-100): ", student.ValidateGrade)
	if err != nil {
		return err
	}

	res, err := a.assignCourse.Handle(ctx, command.AssignCourseCommand{
		StudentID:  view.ID,
		CourseCode: code,
		CourseName: name,
		Credits:    credits,
		Grade:      grade,
	})
	if err != nil {
		a.out.Error("Error assigning course: %s", errMessage(err))
		return nil
	}

	a.out.Success("Course assigned successfully!")
	a.out.Line("  Updated GPA: %.2f", res.GPA)
	a.reportOutcome(res.Outcome)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// 8. Remove course
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) removeCourseFlow(ctx context.Context) error {
	a.out.Title("REMOVE COURSE FROM STUDENT")

	view, err := a.readStudent(ctx)
	if err != nil || view == nil {
		return err
	}
	a.out.Line("")
	a.out.Highlight("Student: %s", view.FullName())

	if !view.HasCourses() {
		a.out.Warning("No courses enrolled.")
		return nil
	}
	a.out.CourseList(*view)

	code, err := a.in.ask("Enter Course Code to remove: ")
	if err != nil {
		return err
	}

	res, err := a.removeCourse.Handle(ctx, command.RemoveCourseCommand{
		StudentID:  view.ID,
		CourseCode: code,
	})
	if err != nil {
		a.out.Error("Error removing course: %s", errMessage(err))
		return nil
	}

	if res.Removed {
		a.out.Success("Course removed successfully!")
	} else {
		a.out.Warning("Student is not enrolled in course: %s", res.CourseCode)
	}
	a.out.Line("  Updated GPA: %.2f", res.GPA)
	a.reportOutcome(res.Outcome)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// 9. Statistics
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) statisticsFlow(ctx context.Context) error {
	a.out.Title("SYSTEM STATISTICS")

	stats, err := a.statistics.Handle(ctx)
	if err != nil {
		a.out.Error("%s", errMessage(err))
		return nil
	}
	if stats.IsEmpty() {
		a.out.Warning("No students in the system.")
		return nil
	}
	a.out.Statistics(stats)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func normalizeID(raw string) string {
	return shared.ParseStudentID(raw).String()
}

func confirmed(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y":
		return true
	default:
		return false
	}
}

func errMessage(err error) string {
	return shared.Message(err)
}
