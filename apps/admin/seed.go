package main

import (
	"fmt"
	"time"

	"github.com/shuleapp/shule/core/school"
	"github.com/shuleapp/shule/core/user"
)

const seedPIN = "1234"

// seed loads the demo accounts and classroom data used in development.
func (cli *commandLine) seed() error {
	teachers := []user.NewUser{
		{Name: "Mr. Johnson", Email: "johnson@school.org", Role: user.RoleTeacher, PIN: seedPIN},
		{Name: "Ms. Garcia", Email: "garcia@school.org", Role: user.RoleTeacher, PIN: seedPIN},
		{Name: "Mrs. Thompson", Email: "thompson@school.org", Role: user.RoleTeacher, PIN: seedPIN},
	}
	students := []user.NewUser{
		{Name: "Emma Wilson", Email: "emma@school.org", Role: user.RoleStudent, PIN: seedPIN, ClassName: "Grade 5A"},
		{Name: "James Chen", Email: "james@school.org", Role: user.RoleStudent, PIN: seedPIN, ClassName: "Grade 5A"},
		{Name: "Sofia Martinez", Email: "sofia@school.org", Role: user.RoleStudent, PIN: seedPIN, ClassName: "Grade 5B"},
	}
	admins := []user.NewUser{
		{Name: "Dr. Anderson", Email: "admin@school.org", Role: user.RoleAdmin, PIN: seedPIN},
		{Name: "Ms. Roberts", Email: "roberts@school.org", Role: user.RoleAdmin, PIN: seedPIN},
	}

	created := make(map[string]user.User)
	for _, nu := range append(append(teachers, students...), admins...) {
		usr, err := cli.usrSvc.Create(nu)
		if err != nil {
			return err
		}
		created[usr.Email] = usr
	}

	johnson := created["johnson@school.org"]
	garcia := created["garcia@school.org"]

	grade5A, err := cli.schoolSvc.CreateClass(johnson, school.NewClass{Name: "Grade 5A"})
	if err != nil {
		return err
	}
	if _, err = cli.schoolSvc.CreateClass(garcia, school.NewClass{Name: "Grade 5B"}); err != nil {
		return err
	}

	now := time.Now().UTC()
	assignments := []school.NewAssignment{
		{
			Title:       "Write a short story about your summer vacation",
			Subject:     "English",
			Description: "Write a creative short story (200-300 words) about a memorable summer vacation experience.",
			DueDate:     datePtr(now.AddDate(0, 0, 5)),
			ClassID:     grade5A.ID,
		},
		{
			Title:       "Complete math worksheet: Fractions",
			Subject:     "Mathematics",
			Description: "Complete the attached worksheet on adding and subtracting fractions with unlike denominators.",
			DueDate:     datePtr(now.AddDate(0, 0, 2)),
			ClassID:     grade5A.ID,
		},
		{
			Title:       "Science project: Water cycle diagram",
			Subject:     "Science",
			Description: "Create a colorful diagram showing the water cycle with labels for evaporation, condensation, and precipitation.",
			DueDate:     datePtr(now.AddDate(0, 0, 7)),
			ClassID:     grade5A.ID,
		},
	}
	for _, na := range assignments {
		if _, err = cli.schoolSvc.CreateAssignment(johnson, na); err != nil {
			return err
		}
	}

	resources := []struct {
		owner user.User
		nr    school.NewResource
	}{
		{johnson, school.NewResource{
			Title:      "Fractions Guide",
			Type:       school.ResourceWorksheet,
			Subject:    "Mathematics",
			GradeLevel: "Grade 5",
			Content:    "A comprehensive guide on understanding and working with fractions...",
		}},
		{garcia, school.NewResource{
			Title:      "Water Cycle Explanation",
			Type:       school.ResourceVisual,
			Subject:    "Science",
			GradeLevel: "Grade 5",
			Content:    "Diagram explaining the water cycle process...",
		}},
	}
	for _, r := range resources {
		if _, err = cli.schoolSvc.CreateResource(r.owner, r.nr); err != nil {
			return err
		}
	}

	fmt.Println("Database seeded. All demo accounts use PIN", seedPIN)
	return nil
}

func datePtr(t time.Time) *time.Time { return &t }
