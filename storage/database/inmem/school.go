package inmemdb

import (
	"sort"

	"github.com/shuleapp/shule/core/school"
)

// Classes

type classRepository struct {
	db *classTable
}

func NewClassRepository(db *DB) school.ClassRepository {
	return &classRepository{db: db.classes}
}

func (repo *classRepository) query() []school.Class {
	classes := make([]school.Class, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		classes = append(classes, *c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	return classes
}

func (repo *classRepository) CreateClass(cls school.Class) (school.Class, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.seq++
	cls.ID = repo.db.seq
	repo.db.table[cls.ID] = &cls
	return cls, nil
}

func (repo *classRepository) QueryAllClasses() ([]school.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *classRepository) GetClassByID(id int) (school.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cls, ok := repo.db.table[id]; ok {
		return *cls, nil
	}
	return school.Class{}, school.ErrNotFound
}

func (repo *classRepository) GetClassByName(name string) (school.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, cls := range repo.query() {
		if cls.Name == name {
			return cls, nil
		}
	}
	return school.Class{}, school.ErrNotFound
}

func (repo *classRepository) FilterClassesByTeacher(teacherID int) ([]school.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := make([]school.Class, 0)
	for _, cls := range repo.query() {
		if cls.TeacherID == teacherID {
			classes = append(classes, cls)
		}
	}
	return classes, nil
}

func (repo *classRepository) DeleteClass(id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	delete(repo.db.table, id)
	return nil
}

// Assignments

type assignmentRepository struct {
	db *assignmentTable
}

func NewAssignmentRepository(db *DB) school.AssignmentRepository {
	return &assignmentRepository{db: db.assignments}
}

func (repo *assignmentRepository) query() []school.Assignment {
	assignments := make([]school.Assignment, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		assignments = append(assignments, *a)
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].ID < assignments[j].ID })
	return assignments
}

func (repo *assignmentRepository) CreateAssignment(a school.Assignment) (school.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.seq++
	a.ID = repo.db.seq
	repo.db.table[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) GetAssignmentByID(id int) (school.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.table[id]; ok {
		return *a, nil
	}
	return school.Assignment{}, school.ErrNotFound
}

func (repo *assignmentRepository) FilterAssignmentsByClass(classIDs ...int) ([]school.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	wanted := make(map[int]bool, len(classIDs))
	for _, id := range classIDs {
		wanted[id] = true
	}

	assignments := make([]school.Assignment, 0)
	for _, a := range repo.query() {
		if wanted[a.ClassID] {
			assignments = append(assignments, a)
		}
	}
	return assignments, nil
}

// Submissions

type submissionRepository struct {
	db      *submissionTable
	classes *classTable
	assigns *assignmentTable
}

func NewSubmissionRepository(db *DB) school.SubmissionRepository {
	return &submissionRepository{db: db.submissions, classes: db.classes, assigns: db.assignments}
}

func (repo *submissionRepository) query() []school.Submission {
	subs := make([]school.Submission, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		subs = append(subs, *s)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs
}

func (repo *submissionRepository) CreateSubmission(s school.Submission) (school.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.seq++
	s.ID = repo.db.seq
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *submissionRepository) GetSubmissionByID(id int) (school.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return school.Submission{}, school.ErrNotFound
}

func (repo *submissionRepository) GetSubmissionByAssignmentAndStudent(assignmentID, studentID int) (school.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, s := range repo.query() {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			return s, nil
		}
	}
	return school.Submission{}, school.ErrNotFound
}

func (repo *submissionRepository) FilterSubmissionsByAssignment(assignmentID int) ([]school.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subs := make([]school.Submission, 0)
	for _, s := range repo.query() {
		if s.AssignmentID == assignmentID {
			subs = append(subs, s)
		}
	}
	return subs, nil
}

func (repo *submissionRepository) FilterPendingSubmissionsByTeacher(teacherID int) ([]school.Submission, error) {
	teacherClasses := make(map[int]bool)
	repo.classes.mutex.RLock()
	for id, cls := range repo.classes.table {
		if cls.TeacherID == teacherID {
			teacherClasses[id] = true
		}
	}
	repo.classes.mutex.RUnlock()

	teacherAssignments := make(map[int]bool)
	repo.assigns.mutex.RLock()
	for id, a := range repo.assigns.table {
		if teacherClasses[a.ClassID] {
			teacherAssignments[id] = true
		}
	}
	repo.assigns.mutex.RUnlock()

	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subs := make([]school.Submission, 0)
	for _, s := range repo.query() {
		if teacherAssignments[s.AssignmentID] && s.Status != school.SubmissionGraded {
			subs = append(subs, s)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.Before(subs[j].SubmittedAt) })
	return subs, nil
}

func (repo *submissionRepository) UpdateSubmission(s school.Submission) (school.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[s.ID]; !ok {
		return school.Submission{}, school.ErrNotFound
	}
	repo.db.table[s.ID] = &s
	return s, nil
}

// Resources

type resourceRepository struct {
	db *resourceTable
}

func NewResourceRepository(db *DB) school.ResourceRepository {
	return &resourceRepository{db: db.resources}
}

func (repo *resourceRepository) query() []school.Resource {
	resources := make([]school.Resource, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		resources = append(resources, *r)
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].ID < resources[j].ID })
	return resources
}

func (repo *resourceRepository) CreateResource(r school.Resource) (school.Resource, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.seq++
	r.ID = repo.db.seq
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *resourceRepository) GetResourceByID(id int) (school.Resource, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return school.Resource{}, school.ErrNotFound
}

func (repo *resourceRepository) FilterResources(teacherID int, filter school.ResourceFilter) ([]school.Resource, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	resources := make([]school.Resource, 0)
	for _, r := range repo.query() {
		if teacherID != 0 && r.TeacherID != teacherID {
			continue
		}
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		if filter.Subject != "" && r.Subject != filter.Subject {
			continue
		}
		resources = append(resources, r)
	}
	return resources, nil
}

func (repo *resourceRepository) DeleteResource(id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	delete(repo.db.table, id)
	return nil
}
