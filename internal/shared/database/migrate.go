package database

import (
	"stagepass/internal/bookings"
	"stagepass/internal/events"
	"stagepass/internal/members"
	"stagepass/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&members.Member{},
		&bookings.Booking{},
		&bookings.Attendee{},
	); err != nil {
		return err
	}
	return migrateConstraints(db)
}

// migrateConstraints adds the unique (event_id, seat_id) index on
// attendees. This is the conditional-write guard: two commits racing for
// the same seat resolve at the store, the loser gets a duplicate-key
// error mapped to an availability conflict.
func migrateConstraints(db *gorm.DB) error {
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_seat_per_event
		ON attendees (event_id, seat_id);
	`).Error
}
