package school

import (
	"errors"
	"time"

	"github.com/shuleapp/shule/core"
	"github.com/shuleapp/shule/core/user"
)

var (
	// errors
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = core.NewPermissionError("permission denied")
)

type (
	ClassRepository interface {
		CreateClass(cls Class) (Class, error)
		QueryAllClasses() ([]Class, error)
		GetClassByID(id int) (Class, error)
		GetClassByName(name string) (Class, error)
		FilterClassesByTeacher(teacherID int) ([]Class, error)
		DeleteClass(id int) error
	}

	AssignmentRepository interface {
		CreateAssignment(a Assignment) (Assignment, error)
		GetAssignmentByID(id int) (Assignment, error)
		FilterAssignmentsByClass(classIDs ...int) ([]Assignment, error)
	}

	SubmissionRepository interface {
		CreateSubmission(s Submission) (Submission, error)
		GetSubmissionByID(id int) (Submission, error)
		GetSubmissionByAssignmentAndStudent(assignmentID, studentID int) (Submission, error)
		FilterSubmissionsByAssignment(assignmentID int) ([]Submission, error)
		// FilterPendingSubmissionsByTeacher returns ungraded submissions across
		// all classes taught by teacherID, oldest first.
		FilterPendingSubmissionsByTeacher(teacherID int) ([]Submission, error)
		UpdateSubmission(s Submission) (Submission, error)
	}

	ResourceRepository interface {
		CreateResource(r Resource) (Resource, error)
		GetResourceByID(id int) (Resource, error)
		FilterResources(teacherID int, filter ResourceFilter) ([]Resource, error)
		DeleteResource(id int) error
	}

	Service struct {
		classes     ClassRepository
		assignments AssignmentRepository
		submissions SubmissionRepository
		resources   ResourceRepository
	}
)

func NewService(
	classes ClassRepository,
	assignments AssignmentRepository,
	submissions SubmissionRepository,
	resources ResourceRepository,
) *Service {
	return &Service{
		classes:     classes,
		assignments: assignments,
		submissions: submissions,
		resources:   resources,
	}
}

// Classes

// PublicClasses lists every class; it backs the login screen's class picker
// and requires no authentication.
func (svc *Service) PublicClasses() ([]Class, error) {
	return svc.classes.QueryAllClasses()
}

// ClassesFor returns the classes visible to usr: own classes for a teacher,
// the enrolled class for a student, everything for an admin.
func (svc *Service) ClassesFor(usr user.User) ([]Class, error) {
	switch {
	case usr.IsTeacher():
		return svc.classes.FilterClassesByTeacher(usr.ID)
	case usr.IsStudent():
		cls, err := svc.classes.GetClassByName(usr.ClassName)
		if err != nil {
			if err == ErrNotFound {
				return []Class{}, nil
			}
			return nil, err
		}
		return []Class{cls}, nil
	case usr.IsAdmin():
		return svc.classes.QueryAllClasses()
	}
	return []Class{}, nil
}

func (svc *Service) CreateClass(usr user.User, nc NewClass) (Class, error) {
	if !(usr.IsTeacher() || usr.IsAdmin()) {
		return Class{}, ErrForbidden
	}
	return svc.classes.CreateClass(Class{
		Name:        nc.Name,
		TeacherID:   usr.ID,
		TeacherName: usr.Name,
		CreatedAt:   time.Now().UTC(),
	})
}

func (svc *Service) DeleteClass(usr user.User, id int) error {
	cls, err := svc.classes.GetClassByID(id)
	if err != nil {
		return err
	}
	if !usr.IsAdmin() && !(usr.IsTeacher() && cls.TeacherID == usr.ID) {
		return ErrForbidden
	}
	return svc.classes.DeleteClass(id)
}

// Assignments

// AssignmentsFor lists assignments scoped to usr. Student rows carry the
// student's own submission status and grade.
func (svc *Service) AssignmentsFor(usr user.User) ([]AssignmentSummary, error) {
	switch {
	case usr.IsStudent():
		cls, err := svc.classes.GetClassByName(usr.ClassName)
		if err != nil {
			if err == ErrNotFound {
				return []AssignmentSummary{}, nil
			}
			return nil, err
		}
		assignments, err := svc.assignments.FilterAssignmentsByClass(cls.ID)
		if err != nil {
			return nil, err
		}

		summaries := make([]AssignmentSummary, 0, len(assignments))
		for _, a := range assignments {
			summary := AssignmentSummary{Assignment: a, ClassName: cls.Name, SubmissionStatus: AssignmentPending}
			if sub, err := svc.submissions.GetSubmissionByAssignmentAndStudent(a.ID, usr.ID); err == nil {
				summary.SubmissionStatus = sub.Status
				summary.Grade = sub.Grade
			} else if err != ErrNotFound {
				return nil, err
			}
			summaries = append(summaries, summary)
		}
		return summaries, nil

	case usr.IsTeacher():
		classes, err := svc.classes.FilterClassesByTeacher(usr.ID)
		if err != nil {
			return nil, err
		}
		classNames := make(map[int]string, len(classes))
		classIDs := make([]int, 0, len(classes))
		for _, cls := range classes {
			classNames[cls.ID] = cls.Name
			classIDs = append(classIDs, cls.ID)
		}
		assignments, err := svc.assignments.FilterAssignmentsByClass(classIDs...)
		if err != nil {
			return nil, err
		}

		summaries := make([]AssignmentSummary, 0, len(assignments))
		for _, a := range assignments {
			summaries = append(summaries, AssignmentSummary{Assignment: a, ClassName: classNames[a.ClassID]})
		}
		return summaries, nil
	}
	return []AssignmentSummary{}, nil
}

func (svc *Service) CreateAssignment(usr user.User, na NewAssignment) (Assignment, error) {
	if !usr.IsTeacher() {
		return Assignment{}, ErrForbidden
	}
	cls, err := svc.classes.GetClassByID(na.ClassID)
	if err != nil {
		return Assignment{}, err
	}
	if cls.TeacherID != usr.ID {
		return Assignment{}, ErrForbidden
	}
	return svc.assignments.CreateAssignment(Assignment{
		Title:       na.Title,
		Subject:     na.Subject,
		Description: na.Description,
		DueDate:     na.DueDate,
		ClassID:     na.ClassID,
		Status:      AssignmentPending,
		CreatedAt:   time.Now().UTC(),
	})
}

func (svc *Service) GetAssignment(usr user.User, id int) (Assignment, error) {
	a, err := svc.assignments.GetAssignmentByID(id)
	if err != nil {
		return Assignment{}, err
	}

	switch {
	case usr.IsAdmin():
		return a, nil
	case usr.IsTeacher():
		cls, err := svc.classes.GetClassByID(a.ClassID)
		if err != nil {
			return Assignment{}, err
		}
		if cls.TeacherID != usr.ID {
			return Assignment{}, ErrForbidden
		}
		return a, nil
	case usr.IsStudent():
		cls, err := svc.classes.GetClassByID(a.ClassID)
		if err != nil {
			return Assignment{}, err
		}
		if cls.Name != usr.ClassName {
			return Assignment{}, ErrForbidden
		}
		return a, nil
	}
	return Assignment{}, ErrForbidden
}

// Submissions

func (svc *Service) Submit(usr user.User, ns NewSubmission) (Submission, error) {
	if !usr.IsStudent() {
		return Submission{}, ErrForbidden
	}
	if _, err := svc.assignments.GetAssignmentByID(ns.AssignmentID); err != nil {
		return Submission{}, err
	}
	return svc.submissions.CreateSubmission(Submission{
		AssignmentID: ns.AssignmentID,
		StudentID:    usr.ID,
		StudentName:  usr.Name,
		Content:      ns.Content,
		Status:       SubmissionSubmitted,
		SubmittedAt:  time.Now().UTC(),
	})
}

func (svc *Service) AssignmentSubmissions(usr user.User, assignmentID int) ([]Submission, error) {
	if !usr.IsTeacher() {
		return nil, ErrForbidden
	}
	if err := svc.checkTeacherOwnsAssignment(usr, assignmentID); err != nil {
		return nil, err
	}
	return svc.submissions.FilterSubmissionsByAssignment(assignmentID)
}

func (svc *Service) GetSubmission(usr user.User, id int) (SubmissionDetail, error) {
	sub, err := svc.submissions.GetSubmissionByID(id)
	if err != nil {
		return SubmissionDetail{}, err
	}

	switch {
	case usr.IsTeacher():
		if err := svc.checkTeacherOwnsAssignment(usr, sub.AssignmentID); err != nil {
			return SubmissionDetail{}, err
		}
	case usr.IsStudent():
		if sub.StudentID != usr.ID {
			return SubmissionDetail{}, ErrForbidden
		}
	default:
		return SubmissionDetail{}, ErrForbidden
	}

	a, err := svc.assignments.GetAssignmentByID(sub.AssignmentID)
	if err != nil {
		return SubmissionDetail{}, err
	}
	return SubmissionDetail{
		Submission:            sub,
		AssignmentTitle:       a.Title,
		AssignmentDescription: a.Description,
	}, nil
}

func (svc *Service) Grade(usr user.User, id int, gi GradeInput) (Submission, error) {
	if !usr.IsTeacher() {
		return Submission{}, ErrForbidden
	}
	sub, err := svc.submissions.GetSubmissionByID(id)
	if err != nil {
		return Submission{}, err
	}
	if err := svc.checkTeacherOwnsAssignment(usr, sub.AssignmentID); err != nil {
		return Submission{}, err
	}

	sub.Grade = gi.Grade
	sub.Feedback = gi.Feedback
	sub.Status = SubmissionGraded
	return svc.submissions.UpdateSubmission(sub)
}

func (svc *Service) PendingSubmissions(usr user.User) ([]Submission, error) {
	if !usr.IsTeacher() {
		return nil, ErrForbidden
	}
	return svc.submissions.FilterPendingSubmissionsByTeacher(usr.ID)
}

func (svc *Service) checkTeacherOwnsAssignment(usr user.User, assignmentID int) error {
	a, err := svc.assignments.GetAssignmentByID(assignmentID)
	if err != nil {
		return err
	}
	cls, err := svc.classes.GetClassByID(a.ClassID)
	if err != nil {
		return err
	}
	if cls.TeacherID != usr.ID {
		return ErrForbidden
	}
	return nil
}

// Resources

func (svc *Service) ResourcesFor(usr user.User, filter ResourceFilter) ([]Resource, error) {
	teacherID := 0 // admin sees all
	if usr.IsTeacher() {
		teacherID = usr.ID
	} else if !usr.IsAdmin() {
		return nil, ErrForbidden
	}
	return svc.resources.FilterResources(teacherID, filter)
}

func (svc *Service) CreateResource(usr user.User, nr NewResource) (Resource, error) {
	if !usr.IsTeacher() {
		return Resource{}, ErrForbidden
	}
	return svc.resources.CreateResource(Resource{
		Title:      nr.Title,
		Type:       nr.Type,
		Content:    nr.Content,
		Subject:    nr.Subject,
		GradeLevel: nr.GradeLevel,
		TeacherID:  usr.ID,
		CreatedAt:  time.Now().UTC(),
	})
}

func (svc *Service) DeleteResource(usr user.User, id int) error {
	res, err := svc.resources.GetResourceByID(id)
	if err != nil {
		return err
	}
	if res.TeacherID != usr.ID && !usr.IsAdmin() {
		return ErrForbidden
	}
	return svc.resources.DeleteResource(id)
}
