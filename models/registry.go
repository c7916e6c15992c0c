package models

// All lists the tables managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&LeaveApplication{},
		&ScheduleChangeRequest{},
		&FacultyApplication{},
		&ReviewHistory{},
		&Publication{},
		&Subject{},
		&GalleryImage{},
		&Notification{},
	}
}
