package model

// Models lists every table in creation order, join tables last.
// booking_reviews is created from PassengerReview because it carries the
// superset of review columns.
func Models() []interface{} {
	return []interface{}{
		(*Driver)(nil),
		(*Passenger)(nil),
		(*PassengerReview)(nil),
		(*Booking)(nil),
		(*Student)(nil),
		(*Course)(nil),
		(*CourseStudent)(nil),
	}
}

// Tables lists the table names of Models in the same order.
func Tables() []string {
	return []string{
		"drivers",
		"passengers",
		"booking_reviews",
		"bookings",
		"students",
		"courses",
		"course_students",
	}
}
