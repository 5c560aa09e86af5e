package repository

import (
	"context"
	"fmt"
	"time"

	"review-service/internal/model"
	"review-service/internal/store"

	"github.com/uptrace/bun"
)

// StudentRepository owns the course_students join table. Saving a Student
// with a non-nil Courses slice replaces its course set; a nil slice leaves
// the associations untouched.
type StudentRepository interface {
	store.CRUD[*model.Student]
}

type CourseRepository interface {
	store.CRUD[*model.Course]
}

type studentRepository struct {
	*store.Repository[model.Student, *model.Student]
}

func NewStudentRepository(db bun.IDB, gateway *store.Gateway) StudentRepository {
	return &studentRepository{
		Repository: store.NewRepository[model.Student](db, gateway, "students",
			store.WithRelations("Courses"),
		),
	}
}

func (r *studentRepository) Save(ctx context.Context, student *model.Student) (*model.Student, error) {
	for i, course := range student.Courses {
		if course == nil || course.IsNew() {
			return nil, &store.Error{
				Op:    "save",
				Table: "students",
				Kind:  store.ErrTransientAssociation,
				Err:   fmt.Errorf("course at index %d must be saved before the student", i),
			}
		}
	}

	wasNew := student.IsNew()

	err := r.DB().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := r.Repository.WithDB(tx).Save(ctx, student); err != nil {
			return err
		}
		if student.Courses == nil {
			return nil
		}
		return r.replaceCourses(ctx, tx, student)
	})
	if err != nil {
		// The student row was rolled back with the links.
		if wasNew {
			student.Forget()
		}
		return nil, err
	}
	return student, nil
}

func (r *studentRepository) replaceCourses(ctx context.Context, tx bun.Tx, student *model.Student) error {
	start := time.Now()
	_, err := tx.NewDelete().
		Model((*model.CourseStudent)(nil)).
		Where("student_id = ?", student.ID).
		Exec(ctx)

	r.Record(ctx, "delete", start, err)

	if err != nil {
		return store.Classify("delete", "course_students", err)
	}

	seen := make(map[int]struct{}, len(student.Courses))
	links := make([]model.CourseStudent, 0, len(student.Courses))
	for _, course := range student.Courses {
		if _, ok := seen[course.ID]; ok {
			continue
		}
		seen[course.ID] = struct{}{}
		links = append(links, model.CourseStudent{StudentID: student.ID, CourseID: course.ID})
	}
	if len(links) == 0 {
		return nil
	}

	start = time.Now()
	_, err = tx.NewInsert().Model(&links).Exec(ctx)

	r.Record(ctx, "insert", start, err)

	return store.Classify("insert", "course_students", err)
}

func NewCourseRepository(db bun.IDB, gateway *store.Gateway) CourseRepository {
	return store.NewRepository[model.Course](db, gateway, "courses",
		store.WithRelations("Students"),
	)
}
