package main

import (
	"testing"

	"github.com/shuleapp/shule/core/school"
	"github.com/shuleapp/shule/core/user"
	emailsvc "github.com/shuleapp/shule/services/email"
	inmemdb "github.com/shuleapp/shule/storage/database/inmem"
)

func setupTest(t *testing.T) *commandLine {
	t.Helper()
	db := inmemdb.NewDB()
	return &commandLine{
		usrSvc: user.NewService(inmemdb.NewUserRepository(db), emailsvc.NewConsoleServiceMock()),
		schoolSvc: school.NewService(
			inmemdb.NewClassRepository(db),
			inmemdb.NewAssignmentRepository(db),
			inmemdb.NewSubmissionRepository(db),
			inmemdb.NewResourceRepository(db),
		),
	}
}

func mockPIN(pin string) {
	readPINFunc = func(int) ([]byte, error) { return []byte(pin), nil }
}

type cliTest struct {
	name       string
	args       []string // without program name
	pin        string
	wantErr    error
	wantErrStr string
}

func Test_commandLine_run(t *testing.T) {
	tests := []cliTest{
		{name: "no args", wantErr: errHelp},
		{name: "unknown command", args: []string{"frobnicate"}, wantErr: errHelp},
		{name: "adduser requires name and role", args: []string{"adduser", "-email", "x@test.cd"}, wantErr: errHelp},
		{name: "resetpin requires email", args: []string{"resetpin"}, wantErr: errHelp},
		{name: "empty PIN rejected", args: []string{"resetpin", "-email", "x@test.cd"}, pin: "", wantErr: errHelp},
		{name: "migrate needs postgres", args: []string{"migrate"}, wantErrStr: "migrate requires the postgres engine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := setupTest(t)
			mockPIN(tt.pin)

			err := cli.run(append([]string{"admin"}, tt.args...))
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("run() = %v; want %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("run() = %v; want %q", err, tt.wantErrStr)
				}
				return
			}
			if err != nil {
				t.Errorf("run() = %v; want nil", err)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setupTest(t)
	mockPIN("1234")

	args := []string{"admin", "adduser", "-name", "Emma Wilson", "-email", "emma@test.cd", "-role", "student", "-class", "Grade 5A"}
	if err := cli.run(args); err != nil {
		t.Fatalf("run() = %v", err)
	}

	usr, err := cli.usrSvc.GetByEmail("emma@test.cd")
	if err != nil {
		t.Fatalf("GetByEmail(): %v", err)
	}
	if usr.Role != user.RoleStudent || usr.ClassName != "Grade 5A" {
		t.Errorf("unexpected user: %+v", usr)
	}
	if err := usr.CheckPIN("1234"); err != nil {
		t.Error("PIN not set")
	}

	t.Run("invalid role rejected", func(t *testing.T) {
		args := []string{"admin", "adduser", "-name", "X", "-role", "principal"}
		if err := cli.run(args); err == nil {
			t.Error("run() = nil; want validation error")
		}
	})
}

func Test_commandLine_resetPIN(t *testing.T) {
	cli := setupTest(t)
	mockPIN("1234")

	if err := cli.run([]string{"admin", "adduser", "-name", "Mr. Johnson", "-email", "johnson@test.cd", "-role", "teacher"}); err != nil {
		t.Fatalf("adduser: %v", err)
	}

	mockPIN("5678")
	if err := cli.run([]string{"admin", "resetpin", "-email", "johnson@test.cd"}); err != nil {
		t.Fatalf("resetpin: %v", err)
	}

	usr, err := cli.usrSvc.GetByEmail("johnson@test.cd")
	if err != nil {
		t.Fatalf("GetByEmail(): %v", err)
	}
	if err := usr.CheckPIN("5678"); err != nil {
		t.Error("new PIN not applied")
	}
	if err := usr.CheckPIN("1234"); err == nil {
		t.Error("old PIN still valid")
	}

	t.Run("unknown email", func(t *testing.T) {
		mockPIN("0000")
		if err := cli.run([]string{"admin", "resetpin", "-email", "nobody@test.cd"}); err != user.ErrNotFound {
			t.Errorf("run() = %v; want %v", err, user.ErrNotFound)
		}
	})
}

func Test_commandLine_seed(t *testing.T) {
	cli := setupTest(t)

	if err := cli.run([]string{"admin", "seed"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	users, err := cli.usrSvc.QueryAll()
	if err != nil {
		t.Fatalf("QueryAll(): %v", err)
	}
	if len(users) != 8 {
		t.Errorf("got %d users; want 8", len(users))
	}

	classes, err := cli.schoolSvc.PublicClasses()
	if err != nil {
		t.Fatalf("PublicClasses(): %v", err)
	}
	if len(classes) != 2 {
		t.Errorf("got %d classes; want 2", len(classes))
	}

	emma, err := cli.usrSvc.GetByEmail("emma@school.org")
	if err != nil {
		t.Fatalf("GetByEmail(): %v", err)
	}
	if err := emma.CheckPIN("1234"); err != nil {
		t.Error("seeded PIN invalid")
	}

	summaries, err := cli.schoolSvc.AssignmentsFor(emma)
	if err != nil {
		t.Fatalf("AssignmentsFor(): %v", err)
	}
	if len(summaries) != 3 {
		t.Errorf("got %d assignments; want 3", len(summaries))
	}
}
