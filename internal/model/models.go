package model

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&TutorProfile{},
		&Category{},
		&Availability{},
		&Booking{},
		&Review{},
	}
}
