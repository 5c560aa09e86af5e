package student

import (
	"context"
	"errors"
	"fmt"

	"review-service/internal/model"
	"review-service/internal/repository"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrInvalidInput    = errors.New("invalid input")
)

type Service interface {
	CreateStudent(ctx context.Context, name, rollNo string, courseIDs []int) (*model.Student, error)
	GetAllStudents(ctx context.Context) ([]*model.Student, error)
	GetStudentByID(ctx context.Context, id int) (*model.Student, error)
	UpdateStudent(ctx context.Context, id int, name, rollNo string, courseIDs []int) (*model.Student, error)
	DeleteStudent(ctx context.Context, id int) error
	CreateCourse(ctx context.Context, name string) (*model.Course, error)
	GetAllCourses(ctx context.Context) ([]*model.Course, error)
}

type service struct {
	students repository.StudentRepository
	courses  repository.CourseRepository
}

func NewService(students repository.StudentRepository, courses repository.CourseRepository) Service {
	return &service{
		students: students,
		courses:  courses,
	}
}

func (s *service) CreateStudent(ctx context.Context, name, rollNo string, courseIDs []int) (*model.Student, error) {
	courses, err := s.resolveCourses(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	return s.students.Save(ctx, model.NewStudent(model.StudentParams{
		Name:    name,
		RollNo:  rollNo,
		Courses: courses,
	}))
}

func (s *service) GetAllStudents(ctx context.Context) ([]*model.Student, error) {
	return s.students.FindAll(ctx)
}

func (s *service) GetStudentByID(ctx context.Context, id int) (*model.Student, error) {
	st, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrStudentNotFound
	}
	return st, nil
}

// UpdateStudent leaves the course set unchanged when courseIDs is nil.
func (s *service) UpdateStudent(ctx context.Context, id int, name, rollNo string, courseIDs []int) (*model.Student, error) {
	st, err := s.GetStudentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	st.Name = name
	st.RollNo = rollNo
	st.Courses = nil
	if courseIDs != nil {
		if st.Courses, err = s.resolveCourses(ctx, courseIDs); err != nil {
			return nil, err
		}
	}
	if _, err := s.students.Save(ctx, st); err != nil {
		return nil, err
	}
	return s.GetStudentByID(ctx, id)
}

func (s *service) DeleteStudent(ctx context.Context, id int) error {
	return s.students.DeleteByID(ctx, id)
}

func (s *service) CreateCourse(ctx context.Context, name string) (*model.Course, error) {
	return s.courses.Save(ctx, model.NewCourse(model.CourseParams{Name: name}))
}

func (s *service) GetAllCourses(ctx context.Context) ([]*model.Course, error) {
	return s.courses.FindAll(ctx)
}

func (s *service) resolveCourses(ctx context.Context, ids []int) ([]*model.Course, error) {
	courses := make([]*model.Course, 0, len(ids))
	for _, id := range ids {
		c, err := s.courses.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("%w: course %d does not exist", ErrInvalidInput, id)
		}
		courses = append(courses, c)
	}
	return courses, nil
}
