package inmemdb

import (
	"sync"

	"github.com/shuleapp/shule/core/school"
	"github.com/shuleapp/shule/core/user"
)

// DB is a map-backed database used in development and tests.
type DB struct {
	users       *userTable
	classes     *classTable
	assignments *assignmentTable
	submissions *submissionTable
	resources   *resourceTable
}

func NewDB() *DB {
	return &DB{
		users:       &userTable{table: make(map[int]*user.User)},
		classes:     &classTable{table: make(map[int]*school.Class)},
		assignments: &assignmentTable{table: make(map[int]*school.Assignment)},
		submissions: &submissionTable{table: make(map[int]*school.Submission)},
		resources:   &resourceTable{table: make(map[int]*school.Resource)},
	}
}

type userTable struct {
	mutex sync.RWMutex
	seq   int
	table map[int]*user.User
}

type classTable struct {
	mutex sync.RWMutex
	seq   int
	table map[int]*school.Class
}

type assignmentTable struct {
	mutex sync.RWMutex
	seq   int
	table map[int]*school.Assignment
}

type submissionTable struct {
	mutex sync.RWMutex
	seq   int
	table map[int]*school.Submission
}

type resourceTable struct {
	mutex sync.RWMutex
	seq   int
	table map[int]*school.Resource
}
