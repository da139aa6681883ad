package school

import (
	"time"

	"github.com/shuleapp/shule/core"
)

// Assignment statuses
const (
	AssignmentPending   = "pending"
	AssignmentCompleted = "completed"
)

// Submission statuses
const (
	SubmissionSubmitted = "submitted"
	SubmissionGraded    = "graded"
)

// Resource types
const (
	ResourceWorksheet = "worksheet"
	ResourceVisual    = "visual"
	ResourceQuiz      = "quiz"
)

type Class struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	TeacherID   int       `json:"-"`
	TeacherName string    `json:"teacher,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Assignment struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Subject     string     `json:"subject,omitempty"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ClassID     int        `json:"class_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AssignmentSummary is an Assignment joined with its class name and, for
// student queries, that student's submission state.
type AssignmentSummary struct {
	Assignment
	ClassName        string `json:"class_name"`
	SubmissionStatus string `json:"submission_status,omitempty"`
	Grade            string `json:"grade,omitempty"`
}

type Submission struct {
	ID           int       `json:"id"`
	AssignmentID int       `json:"assignment_id"`
	StudentID    int       `json:"-"`
	StudentName  string    `json:"student_name,omitempty"`
	Content      string    `json:"content,omitempty"`
	Grade        string    `json:"grade,omitempty"`
	Feedback     string    `json:"feedback,omitempty"`
	Status       string    `json:"status"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// SubmissionDetail carries the assignment context a grading view needs.
type SubmissionDetail struct {
	Submission
	AssignmentTitle       string `json:"assignment_title"`
	AssignmentDescription string `json:"assignment_description,omitempty"`
}

type Resource struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	Content    string    `json:"content,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	GradeLevel string    `json:"grade,omitempty"`
	TeacherID  int       `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// Inputs

type NewClass struct {
	Name string `json:"name" validate:"required"`
}

func (nc *NewClass) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	return core.Validate.Struct(nc)
}

type NewAssignment struct {
	Title       string     `json:"title" validate:"required"`
	Subject     string     `json:"subject"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	ClassID     int        `json:"class_id" validate:"required"`
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Subject = core.CleanString(na.Subject)
	return core.Validate.Struct(na)
}

type NewSubmission struct {
	AssignmentID int    `json:"assignment_id" validate:"required"`
	Content      string `json:"content" validate:"required"`
}

func (ns *NewSubmission) Validate() error {
	ns.Content = core.CleanString(ns.Content)
	return core.Validate.Struct(ns)
}

type GradeInput struct {
	Grade    string `json:"grade" validate:"required"`
	Feedback string `json:"feedback"`
}

func (gi *GradeInput) Validate() error {
	gi.Grade = core.CleanString(gi.Grade)
	gi.Feedback = core.CleanString(gi.Feedback)
	return core.Validate.Struct(gi)
}

type NewResource struct {
	Title      string `json:"title" validate:"required"`
	Type       string `json:"type" validate:"required,oneof=worksheet visual quiz"`
	Content    string `json:"content"`
	Subject    string `json:"subject"`
	GradeLevel string `json:"grade"`
}

func (nr *NewResource) Validate() error {
	nr.Title = core.CleanString(nr.Title)
	nr.Subject = core.CleanString(nr.Subject)
	return core.Validate.Struct(nr)
}

type ResourceFilter struct {
	Type    string `query:"type"`
	Subject string `query:"subject"`
}
