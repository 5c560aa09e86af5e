package model

import "github.com/uptrace/bun"

type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`
	Base

	Name    string    `bun:"name" json:"name" validate:"required"`
	RollNo  string    `bun:"roll_no" json:"rollNo"`
	Courses []*Course `bun:"m2m:course_students,join:Student=Course" json:"courses,omitempty"`
}

type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`
	Base

	Name     string     `bun:"name" json:"name" validate:"required"`
	Students []*Student `bun:"m2m:course_students,join:Course=Student" json:"students,omitempty"`
}

// CourseStudent is the join table between students and courses. It has no
// audit columns and is only written by the student repository.
type CourseStudent struct {
	bun.BaseModel `bun:"table:course_students,alias:cs"`

	StudentID int      `bun:"student_id,pk"`
	Student   *Student `bun:"rel:belongs-to,join:student_id=id,on_delete:CASCADE"`
	CourseID  int      `bun:"course_id,pk"`
	Course    *Course  `bun:"rel:belongs-to,join:course_id=id,on_delete:CASCADE"`
}

type StudentParams struct {
	Name    string
	RollNo  string
	Courses []*Course
}

func NewStudent(p StudentParams) *Student {
	courses := p.Courses
	if courses == nil {
		courses = []*Course{}
	}
	return &Student{
		Name:    p.Name,
		RollNo:  p.RollNo,
		Courses: courses,
	}
}

type CourseParams struct {
	Name string
}

func NewCourse(p CourseParams) *Course {
	return &Course{Name: p.Name}
}
