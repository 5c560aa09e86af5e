package repository_test

import (
	"context"
	"testing"
	"time"

	"review-service/internal/metrics"
	"review-service/internal/model"
	"review-service/internal/repository"
	"review-service/internal/store"
	"review-service/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositories_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)

	ctx := context.Background()
	repos := repository.New(pgContainer.DB, metrics.NewMock())

	newDriver := func(t *testing.T, name, license string) *model.Driver {
		t.Helper()
		d, err := repos.Driver.Save(ctx, model.NewDriver(model.DriverParams{Name: name, LicenseNumber: license}))
		require.NoError(t, err)
		return d
	}

	t.Run("Driver_DuplicateLicense", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		newDriver(t, "first", "L-1")

		_, err := repos.Driver.Save(ctx, model.NewDriver(model.DriverParams{Name: "second", LicenseNumber: "L-1"}))

		require.Error(t, err)
		assert.True(t, store.IsConstraintViolation(err))

		count, err := repos.Driver.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Driver_EmptyLicense", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		_, err := repos.Driver.Save(ctx, model.NewDriver(model.DriverParams{Name: "nameless"}))

		assert.True(t, store.IsConstraintViolation(err))
	})

	t.Run("Driver_FindByIDAndLicenseNumber", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		d := newDriver(t, "ABCD", "1")
		other := newDriver(t, "EFGH", "2")

		lookups := map[string]func(context.Context, int, string) (*model.Driver, error){
			"raw":   repos.Driver.FindByIDAndLicenseNumber,
			"query": repos.Driver.FindByIDAndLicenseNumberQuery,
		}
		for name, find := range lookups {
			found, err := find(ctx, d.ID, "1")
			require.NoError(t, err, name)
			require.NotNil(t, found, name)
			assert.Equal(t, "ABCD", found.Name, name)
			assert.Equal(t, d.ID, found.ID, name)
			assert.True(t, found.CreatedAt.Equal(d.CreatedAt), name)

			found, err = find(ctx, d.ID, "2")
			require.NoError(t, err, name)
			assert.Nil(t, found, "correct id with wrong license: %s", name)

			found, err = find(ctx, other.ID, "1")
			require.NoError(t, err, name)
			assert.Nil(t, found, "wrong id with existing license: %s", name)

			found, err = find(ctx, d.ID, "1' OR '1'='1")
			require.NoError(t, err, name)
			assert.Nil(t, found, "license is bound as a value: %s", name)
		}
	})

	t.Run("Driver_FindByLicenseNumber", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		d := newDriver(t, "ABCD", "1")

		found, err := repos.Driver.FindByLicenseNumber(ctx, "1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, d.ID, found.ID)

		found, err = repos.Driver.FindByLicenseNumber(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Booking_CascadesNewReview", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		d := newDriver(t, "ABCD", "1")
		passenger, err := repos.Passenger.Save(ctx, model.NewPassenger())
		require.NoError(t, err)

		start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		b, err := repos.Booking.Save(ctx, model.NewBooking(model.BookingParams{
			Status:        model.BookingStatusCompleted,
			StartTime:     start,
			EndTime:       start.Add(30 * time.Minute),
			TotalDistance: 14,
			Review:        model.NewReview(model.ReviewParams{Content: "Excellent", Rating: model.Rating(5)}),
			Driver:        d,
			Passenger:     passenger,
		}))
		require.NoError(t, err)
		require.NotZero(t, b.ID)
		require.NotZero(t, b.Review.ID)
		assert.True(t, b.Review.CreatedAt.Equal(b.Review.UpdatedAt))

		loaded, err := repos.Booking.FindByID(ctx, b.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		require.NotNil(t, loaded.Review)
		assert.Equal(t, "Excellent", loaded.Review.Content)
		require.NotNil(t, loaded.Review.Rating)
		assert.Equal(t, 5.0, *loaded.Review.Rating)
		require.NotNil(t, loaded.Driver)
		assert.Equal(t, "ABCD", loaded.Driver.Name)
		require.NotNil(t, loaded.Passenger)
		assert.Equal(t, passenger.ID, loaded.Passenger.ID)
		assert.Equal(t, model.BookingStatusCompleted, loaded.BookingStatus)
		assert.True(t, loaded.StartTime.Equal(start))

		review, err := repos.Review.FindByID(ctx, b.Review.ID)
		require.NoError(t, err)
		require.NotNil(t, review)
		assert.Equal(t, model.ReviewKindBase, review.Kind)

		byDriver, err := repos.Booking.FindAllByDriverID(ctx, d.ID)
		require.NoError(t, err)
		require.Len(t, byDriver, 1)
		assert.Equal(t, b.ID, byDriver[0].ID)

		withBookings, err := repos.Driver.FindByID(ctx, d.ID)
		require.NoError(t, err)
		require.NotNil(t, withBookings)
		require.Len(t, withBookings.Bookings, 1)
		assert.Equal(t, b.ID, withBookings.Bookings[0].ID)
	})

	t.Run("Booking_DeleteKeepsReview", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		b, err := repos.Booking.Save(ctx, model.NewBooking(model.BookingParams{
			Review: model.NewReview(model.ReviewParams{Content: "kept"}),
		}))
		require.NoError(t, err)

		require.NoError(t, repos.Booking.DeleteByID(ctx, b.ID))

		review, err := repos.Review.FindByID(ctx, b.Review.ID)
		require.NoError(t, err)
		require.NotNil(t, review)
		assert.Equal(t, "kept", review.Content)
	})

	t.Run("Booking_UnsavedDriver", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		review := model.NewReview(model.ReviewParams{Content: "never stored"})
		_, err := repos.Booking.Save(ctx, model.NewBooking(model.BookingParams{
			Review: review,
			Driver: model.NewDriver(model.DriverParams{Name: "draft", LicenseNumber: "D"}),
		}))

		require.ErrorIs(t, err, store.ErrTransientAssociation)
		assert.True(t, review.IsNew(), "review insert is rolled back")

		count, err := repos.Review.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("Booking_InvalidReviewRollsBack", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		review := model.NewReview(model.ReviewParams{})
		_, err := repos.Booking.Save(ctx, model.NewBooking(model.BookingParams{
			Review: review,
		}))

		assert.True(t, store.IsConstraintViolation(err))
		assert.True(t, review.IsNew())
		assert.True(t, review.CreatedAt.IsZero(), "stamps are restored when the insert fails")

		count, err := repos.Booking.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("Review_SingleTableViews", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		pr, err := repos.PassengerReview.Save(ctx, model.NewPassengerReview(model.PassengerReviewParams{
			Content:          "smooth ride",
			Rating:           model.Rating(4),
			PassengerComment: "would ride again",
		}))
		require.NoError(t, err)
		require.NotZero(t, pr.ID)

		plain, err := repos.Review.Save(ctx, model.NewReview(model.ReviewParams{Content: "plain"}))
		require.NoError(t, err)
		require.NotEqual(t, pr.ID, plain.ID, "variants share one id space")

		// The base view sees both rows through the shared fields.
		asBase, err := repos.Review.FindByID(ctx, pr.ID)
		require.NoError(t, err)
		require.NotNil(t, asBase)
		assert.Equal(t, "smooth ride", asBase.Content)
		assert.Equal(t, model.ReviewKindPassenger, asBase.Kind)

		all, err := repos.Review.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		// The passenger view sees only passenger rows, with all fields.
		asPassenger, err := repos.PassengerReview.FindByID(ctx, pr.ID)
		require.NoError(t, err)
		require.NotNil(t, asPassenger)
		assert.Equal(t, "would ride again", asPassenger.PassengerComment)

		notPassenger, err := repos.PassengerReview.FindByID(ctx, plain.ID)
		require.NoError(t, err)
		assert.Nil(t, notPassenger)

		passengerCount, err := repos.PassengerReview.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, passengerCount)

		// Updating through the base view keeps the variant payload.
		asBase.Content = "smoother ride"
		_, err = repos.Review.Save(ctx, asBase)
		require.NoError(t, err)

		asPassenger, err = repos.PassengerReview.FindByID(ctx, pr.ID)
		require.NoError(t, err)
		require.NotNil(t, asPassenger)
		assert.Equal(t, "smoother ride", asPassenger.Content)
		assert.Equal(t, "would ride again", asPassenger.PassengerComment)
		assert.True(t, asPassenger.UpdatedAt.After(asPassenger.CreatedAt))

		// Deleting through either view removes the single row.
		require.NoError(t, repos.Review.DeleteByID(ctx, pr.ID))
		gone, err := repos.PassengerReview.FindByID(ctx, pr.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)

		err = repos.PassengerReview.DeleteByID(ctx, plain.ID)
		assert.True(t, store.IsNotFound(err), "passenger view cannot delete a base row")
	})

	t.Run("Student_CoursesRoundTrip", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		math, err := repos.Course.Save(ctx, model.NewCourse(model.CourseParams{Name: "Math"}))
		require.NoError(t, err)
		physics, err := repos.Course.Save(ctx, model.NewCourse(model.CourseParams{Name: "Physics"}))
		require.NoError(t, err)

		s, err := repos.Student.Save(ctx, model.NewStudent(model.StudentParams{
			Name:    "Ann",
			RollNo:  "42",
			Courses: []*model.Course{physics, math, physics},
		}))
		require.NoError(t, err)

		loaded, err := repos.Student.FindByID(ctx, s.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)

		names := make([]string, 0, len(loaded.Courses))
		for _, c := range loaded.Courses {
			names = append(names, c.Name)
		}
		assert.ElementsMatch(t, []string{"Math", "Physics"}, names)

		course, err := repos.Course.FindByID(ctx, math.ID)
		require.NoError(t, err)
		require.NotNil(t, course)
		require.Len(t, course.Students, 1)
		assert.Equal(t, "Ann", course.Students[0].Name)

		// nil leaves the links alone, an empty slice clears them.
		loaded.Courses = nil
		loaded.RollNo = "43"
		_, err = repos.Student.Save(ctx, loaded)
		require.NoError(t, err)

		reloaded, err := repos.Student.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Len(t, reloaded.Courses, 2)
		assert.Equal(t, "43", reloaded.RollNo)

		reloaded.Courses = []*model.Course{}
		_, err = repos.Student.Save(ctx, reloaded)
		require.NoError(t, err)

		cleared, err := repos.Student.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Empty(t, cleared.Courses)
	})

	t.Run("Student_UnsavedCourse", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		_, err := repos.Student.Save(ctx, model.NewStudent(model.StudentParams{
			Name:    "Bob",
			Courses: []*model.Course{model.NewCourse(model.CourseParams{Name: "draft"})},
		}))

		require.ErrorIs(t, err, store.ErrTransientAssociation)

		count, err := repos.Student.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("Student_MissingCourseRollsBack", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		deleted := model.NewCourse(model.CourseParams{Name: "gone"})
		deleted.ID = 9999
		s := model.NewStudent(model.StudentParams{
			Name:    "Dee",
			Courses: []*model.Course{deleted},
		})

		_, err := repos.Student.Save(ctx, s)

		require.Error(t, err)
		assert.True(t, store.IsConstraintViolation(err))
		assert.True(t, s.IsNew(), "rolled back student has no id")
		assert.True(t, s.CreatedAt.IsZero())
		assert.True(t, s.UpdatedAt.IsZero())

		count, err := repos.Student.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)

		// The same value can be saved once the course set is valid.
		course, err := repos.Course.Save(ctx, model.NewCourse(model.CourseParams{Name: "History"}))
		require.NoError(t, err)
		s.Courses = []*model.Course{course}

		saved, err := repos.Student.Save(ctx, s)
		require.NoError(t, err)
		assert.NotZero(t, saved.ID)
		assert.True(t, saved.CreatedAt.Equal(saved.UpdatedAt))

		loaded, err := repos.Student.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		require.Len(t, loaded.Courses, 1)
		assert.Equal(t, "History", loaded.Courses[0].Name)
	})

	t.Run("Booking_RolledBackInsertCanBeRetried", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		d := newDriver(t, "ABCD", "1")
		missing := model.NewPassenger()
		missing.ID = 9999
		b := model.NewBooking(model.BookingParams{
			Driver:    d,
			Passenger: missing,
			Review:    model.NewReview(model.ReviewParams{Content: "Excellent"}),
		})

		_, err := repos.Booking.Save(ctx, b)

		assert.True(t, store.IsConstraintViolation(err))
		assert.True(t, b.IsNew())
		assert.True(t, b.Review.IsNew())
		assert.Nil(t, b.ReviewID)

		b.SetPassenger(nil)
		saved, err := repos.Booking.Save(ctx, b)
		require.NoError(t, err)
		assert.NotZero(t, saved.ID)
		assert.NotZero(t, saved.Review.ID)
	})

	t.Run("Student_DeleteRemovesLinks", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		course, err := repos.Course.Save(ctx, model.NewCourse(model.CourseParams{Name: "Art"}))
		require.NoError(t, err)
		s, err := repos.Student.Save(ctx, model.NewStudent(model.StudentParams{
			Name:    "Cid",
			Courses: []*model.Course{course},
		}))
		require.NoError(t, err)

		require.NoError(t, repos.Student.DeleteByID(ctx, s.ID))

		loaded, err := repos.Course.FindByID(ctx, course.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Empty(t, loaded.Students)
	})
}
