package sqlxrepos

import (
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/shuleapp/shule/core/school"
)

// Classes

type classRow struct {
	ID          int       `db:"id"`
	Name        string    `db:"name"`
	TeacherID   int       `db:"teacher_id"`
	TeacherName string    `db:"teacher_name"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r classRow) toClass() school.Class {
	return school.Class{
		ID:          r.ID,
		Name:        r.Name,
		TeacherID:   r.TeacherID,
		TeacherName: r.TeacherName,
		CreatedAt:   r.CreatedAt,
	}
}

const classSelect = `
	SELECT c.id, c.name, c.teacher_id, u.name AS teacher_name, c.created_at
	FROM classes c JOIN users u ON u.id = c.teacher_id`

type classRepository struct {
	db *sqlx.DB
}

func NewClassRepository(db *sqlx.DB) school.ClassRepository {
	return &classRepository{db: db}
}

func (repo *classRepository) CreateClass(cls school.Class) (school.Class, error) {
	err := repo.db.QueryRow(
		`INSERT INTO classes (name, teacher_id, created_at) VALUES ($1, $2, $3) RETURNING id`,
		cls.Name, cls.TeacherID, cls.CreatedAt,
	).Scan(&cls.ID)
	return cls, errors.Wrap(err, "inserting class")
}

func (repo *classRepository) QueryAllClasses() ([]school.Class, error) {
	var rows []classRow
	err := repo.db.Select(&rows, classSelect+` ORDER BY c.id`)
	return toClasses(rows), errors.Wrap(err, "querying classes")
}

func (repo *classRepository) GetClassByID(id int) (school.Class, error) {
	var row classRow
	if err := repo.db.Get(&row, classSelect+` WHERE c.id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return school.Class{}, school.ErrNotFound
		}
		return school.Class{}, errors.Wrap(err, "getting class by id")
	}
	return row.toClass(), nil
}

func (repo *classRepository) GetClassByName(name string) (school.Class, error) {
	var row classRow
	if err := repo.db.Get(&row, classSelect+` WHERE c.name = $1 ORDER BY c.id LIMIT 1`, name); err != nil {
		if err == sql.ErrNoRows {
			return school.Class{}, school.ErrNotFound
		}
		return school.Class{}, errors.Wrap(err, "getting class by name")
	}
	return row.toClass(), nil
}

func (repo *classRepository) FilterClassesByTeacher(teacherID int) ([]school.Class, error) {
	var rows []classRow
	err := repo.db.Select(&rows, classSelect+` WHERE c.teacher_id = $1 ORDER BY c.id`, teacherID)
	return toClasses(rows), errors.Wrap(err, "filtering classes by teacher")
}

func (repo *classRepository) DeleteClass(id int) error {
	_, err := repo.db.Exec(`DELETE FROM classes WHERE id = $1`, id)
	return errors.Wrap(err, "deleting class")
}

func toClasses(rows []classRow) []school.Class {
	classes := make([]school.Class, 0, len(rows))
	for _, r := range rows {
		classes = append(classes, r.toClass())
	}
	return classes
}

// Assignments

type assignmentRow struct {
	ID          int        `db:"id"`
	Title       string     `db:"title"`
	Subject     string     `db:"subject"`
	Description string     `db:"description"`
	DueDate     *time.Time `db:"due_date"`
	ClassID     int        `db:"class_id"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
}

func (r assignmentRow) toAssignment() school.Assignment {
	return school.Assignment{
		ID:          r.ID,
		Title:       r.Title,
		Subject:     r.Subject,
		Description: r.Description,
		DueDate:     r.DueDate,
		ClassID:     r.ClassID,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
}

type assignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) school.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(a school.Assignment) (school.Assignment, error) {
	err := repo.db.QueryRow(
		`INSERT INTO assignments (title, subject, description, due_date, class_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		a.Title, a.Subject, a.Description, a.DueDate, a.ClassID, a.Status, a.CreatedAt,
	).Scan(&a.ID)
	return a, errors.Wrap(err, "inserting assignment")
}

func (repo *assignmentRepository) GetAssignmentByID(id int) (school.Assignment, error) {
	var row assignmentRow
	if err := repo.db.Get(&row, `SELECT * FROM assignments WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return school.Assignment{}, school.ErrNotFound
		}
		return school.Assignment{}, errors.Wrap(err, "getting assignment by id")
	}
	return row.toAssignment(), nil
}

func (repo *assignmentRepository) FilterAssignmentsByClass(classIDs ...int) ([]school.Assignment, error) {
	if len(classIDs) == 0 {
		return []school.Assignment{}, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM assignments WHERE class_id IN (?) ORDER BY id`, classIDs)
	if err != nil {
		return nil, errors.Wrap(err, "building assignments query")
	}

	var rows []assignmentRow
	if err := repo.db.Select(&rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering assignments")
	}
	assignments := make([]school.Assignment, 0, len(rows))
	for _, r := range rows {
		assignments = append(assignments, r.toAssignment())
	}
	return assignments, nil
}

// Submissions

type submissionRow struct {
	ID           int       `db:"id"`
	AssignmentID int       `db:"assignment_id"`
	StudentID    int       `db:"student_id"`
	StudentName  string    `db:"student_name"`
	Content      string    `db:"content"`
	Grade        string    `db:"grade"`
	Feedback     string    `db:"feedback"`
	Status       string    `db:"status"`
	SubmittedAt  time.Time `db:"submitted_at"`
}

func (r submissionRow) toSubmission() school.Submission {
	return school.Submission{
		ID:           r.ID,
		AssignmentID: r.AssignmentID,
		StudentID:    r.StudentID,
		StudentName:  r.StudentName,
		Content:      r.Content,
		Grade:        r.Grade,
		Feedback:     r.Feedback,
		Status:       r.Status,
		SubmittedAt:  r.SubmittedAt,
	}
}

const submissionSelect = `
	SELECT s.id, s.assignment_id, s.student_id, u.name AS student_name,
	       s.content, s.grade, s.feedback, s.status, s.submitted_at
	FROM submissions s JOIN users u ON u.id = s.student_id`

type submissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) school.SubmissionRepository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) CreateSubmission(s school.Submission) (school.Submission, error) {
	err := repo.db.QueryRow(
		`INSERT INTO submissions (assignment_id, student_id, content, grade, feedback, status, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		s.AssignmentID, s.StudentID, s.Content, s.Grade, s.Feedback, s.Status, s.SubmittedAt,
	).Scan(&s.ID)
	return s, errors.Wrap(err, "inserting submission")
}

func (repo *submissionRepository) GetSubmissionByID(id int) (school.Submission, error) {
	var row submissionRow
	if err := repo.db.Get(&row, submissionSelect+` WHERE s.id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return school.Submission{}, school.ErrNotFound
		}
		return school.Submission{}, errors.Wrap(err, "getting submission by id")
	}
	return row.toSubmission(), nil
}

func (repo *submissionRepository) GetSubmissionByAssignmentAndStudent(assignmentID, studentID int) (school.Submission, error) {
	var row submissionRow
	err := repo.db.Get(
		&row,
		submissionSelect+` WHERE s.assignment_id = $1 AND s.student_id = $2 ORDER BY s.id LIMIT 1`,
		assignmentID, studentID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return school.Submission{}, school.ErrNotFound
		}
		return school.Submission{}, errors.Wrap(err, "getting submission")
	}
	return row.toSubmission(), nil
}

func (repo *submissionRepository) FilterSubmissionsByAssignment(assignmentID int) ([]school.Submission, error) {
	var rows []submissionRow
	err := repo.db.Select(&rows, submissionSelect+` WHERE s.assignment_id = $1 ORDER BY s.id`, assignmentID)
	return toSubmissions(rows), errors.Wrap(err, "filtering submissions")
}

func (repo *submissionRepository) FilterPendingSubmissionsByTeacher(teacherID int) ([]school.Submission, error) {
	query := submissionSelect + `
		JOIN assignments a ON a.id = s.assignment_id
		JOIN classes c ON c.id = a.class_id
		WHERE c.teacher_id = $1 AND s.status <> $2
		ORDER BY s.submitted_at`
	var rows []submissionRow
	err := repo.db.Select(&rows, query, teacherID, school.SubmissionGraded)
	return toSubmissions(rows), errors.Wrap(err, "filtering pending submissions")
}

func (repo *submissionRepository) UpdateSubmission(s school.Submission) (school.Submission, error) {
	res, err := repo.db.Exec(
		`UPDATE submissions SET content = $1, grade = $2, feedback = $3, status = $4 WHERE id = $5`,
		s.Content, s.Grade, s.Feedback, s.Status, s.ID,
	)
	if err != nil {
		return school.Submission{}, errors.Wrap(err, "updating submission")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return school.Submission{}, school.ErrNotFound
	}
	return s, nil
}

func toSubmissions(rows []submissionRow) []school.Submission {
	subs := make([]school.Submission, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, r.toSubmission())
	}
	return subs
}

// Resources

type resourceRow struct {
	ID         int       `db:"id"`
	Title      string    `db:"title"`
	Type       string    `db:"type"`
	Content    string    `db:"content"`
	Subject    string    `db:"subject"`
	GradeLevel string    `db:"grade_level"`
	TeacherID  int       `db:"teacher_id"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r resourceRow) toResource() school.Resource {
	return school.Resource{
		ID:         r.ID,
		Title:      r.Title,
		Type:       r.Type,
		Content:    r.Content,
		Subject:    r.Subject,
		GradeLevel: r.GradeLevel,
		TeacherID:  r.TeacherID,
		CreatedAt:  r.CreatedAt,
	}
}

type resourceRepository struct {
	db *sqlx.DB
}

func NewResourceRepository(db *sqlx.DB) school.ResourceRepository {
	return &resourceRepository{db: db}
}

func (repo *resourceRepository) CreateResource(r school.Resource) (school.Resource, error) {
	err := repo.db.QueryRow(
		`INSERT INTO resources (title, type, content, subject, grade_level, teacher_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		r.Title, r.Type, r.Content, r.Subject, r.GradeLevel, r.TeacherID, r.CreatedAt,
	).Scan(&r.ID)
	return r, errors.Wrap(err, "inserting resource")
}

func (repo *resourceRepository) GetResourceByID(id int) (school.Resource, error) {
	var row resourceRow
	if err := repo.db.Get(&row, `SELECT * FROM resources WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return school.Resource{}, school.ErrNotFound
		}
		return school.Resource{}, errors.Wrap(err, "getting resource by id")
	}
	return row.toResource(), nil
}

func (repo *resourceRepository) FilterResources(teacherID int, filter school.ResourceFilter) ([]school.Resource, error) {
	var conds []string
	var args []interface{}

	if teacherID != 0 {
		args = append(args, teacherID)
		conds = append(conds, "teacher_id = ?")
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, "type = ?")
	}
	if filter.Subject != "" {
		args = append(args, filter.Subject)
		conds = append(conds, "subject = ?")
	}

	query := `SELECT * FROM resources`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	var rows []resourceRow
	if err := repo.db.Select(&rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering resources")
	}
	resources := make([]school.Resource, 0, len(rows))
	for _, r := range rows {
		resources = append(resources, r.toResource())
	}
	return resources, nil
}

func (repo *resourceRepository) DeleteResource(id int) error {
	_, err := repo.db.Exec(`DELETE FROM resources WHERE id = $1`, id)
	return errors.Wrap(err, "deleting resource")
}
