package main

import (
	"fmt"
	"log"
	"time"

	"stagepass/internal/events"
	"stagepass/internal/members"
	"stagepass/internal/seating"
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/database"
	"stagepass/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting StagePass database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"attendees",
		"bookings",
		"members",
		"events",
		"users",
	}

	pg := s.db.GetPostgreSQL()
	for _, table := range tables {
		if err := pg.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) SeedAll() error {
	admin, err := s.seedUsers()
	if err != nil {
		return err
	}
	if err := s.seedEvents(admin.ID); err != nil {
		return err
	}
	return s.seedMembers()
}

func (s *Seeder) seedUsers() (*users.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &users.User{
		DisplayName: "Box Office Admin",
		Email:       "admin@stagepass.local",
		Password:    string(hash),
		Role:        users.RoleAdmin,
	}
	if err := s.db.GetPostgreSQL().Create(admin).Error; err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	userHash, err := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	visitor := &users.User{
		DisplayName: "Dana Visitor",
		Email:       "dana@example.com",
		Password:    string(userHash),
		Role:        users.RoleUser,
	}
	if err := s.db.GetPostgreSQL().Create(visitor).Error; err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}

	fmt.Println("  users: admin@stagepass.local / admin123, dana@example.com / user123")
	return admin, nil
}

func (s *Seeder) seedEvents(adminID uuid.UUID) error {
	chart := seating.Chart{
		Tiers: []seating.Tier{
			{
				Name: "Main Hall",
				Sections: []seating.Section{
					{
						Name:       "Gold",
						TicketType: "Gold",
						Price:      900,
						Rows: []seating.Row{
							{ID: "A", Seats: 12},
							{ID: "B", Seats: 12},
							{ID: seating.SpacerRowID},
							{ID: "C-left", Label: "C", Seats: 6},
							{ID: "C-right", Label: "C", Seats: 6, Offset: 6},
						},
					},
					{
						Name:       "Silver",
						TicketType: "Silver",
						Price:      500,
						Rows: []seating.Row{
							{ID: "D", Seats: 14},
							{ID: "E", Seats: 14},
						},
					},
				},
			},
			{
				Name: "Balcony",
				Sections: []seating.Section{
					{
						Name:       "Balcony",
						TicketType: "Balcony",
						Price:      300,
						Rows: []seating.Row{
							{ID: "F", Seats: 10},
							{ID: "G", Seats: 10},
						},
					},
				},
			},
		},
	}

	seated := &events.Event{
		Name:        "Autumn Chamber Recital",
		Description: "An evening of string quartets in the main hall.",
		Category:    "concert",
		Venue:       "StagePass Cultural Centre",
		DateTime:    time.Now().AddDate(0, 1, 0),
		Status:      events.StatusPublished,
		TicketTypes: events.TicketTypeList{
			{Name: "Gold", Price: 900},
			{Name: "Silver", Price: 500},
			{Name: "Balcony", Price: 300},
		},
		SeatingChart:  events.ChartDocument{Chart: chart},
		ReservedSeats: events.ReservedSeatList{"A-1", "A-2"},
		CreatedBy:     adminID,
	}
	if err := s.db.GetPostgreSQL().Create(seated).Error; err != nil {
		return fmt.Errorf("seed seated event: %w", err)
	}

	openFloor := &events.Event{
		Name:        "Late Night Jazz Jam",
		Description: "Standing room session, no assigned seating.",
		Category:    "concert",
		Venue:       "StagePass Club Stage",
		DateTime:    time.Now().AddDate(0, 0, 14),
		Status:      events.StatusPublished,
		TicketTypes: events.TicketTypeList{
			{Name: "General", Price: 200},
		},
		CreatedBy: adminID,
	}
	if err := s.db.GetPostgreSQL().Create(openFloor).Error; err != nil {
		return fmt.Errorf("seed open floor event: %w", err)
	}

	fmt.Printf("  events: %s, %s\n", seated.Name, openFloor.Name)
	return nil
}

func (s *Seeder) seedMembers() error {
	expired := time.Now().AddDate(-1, 0, 0)
	active := time.Now().AddDate(1, 0, 0)

	list := []members.Member{
		{
			MemberID:   1001,
			Name:       "Maya Subscriber",
			Email:      "maya@example.com",
			CouponCode: "GOLD-MAYA-1001",
			JoinedAt:   time.Now().AddDate(-2, 0, 0),
			ExpiresAt:  &active,
		},
		{
			MemberID:   1002,
			Name:       "Jon Lifetime",
			Email:      "jon@example.com",
			CouponCode: "LIFE-JON-1002",
			JoinedAt:   time.Now().AddDate(-5, 0, 0),
		},
		{
			MemberID:   1003,
			Name:       "Rita Lapsed",
			Email:      "rita@example.com",
			CouponCode: "GOLD-RITA-1003",
			JoinedAt:   time.Now().AddDate(-3, 0, 0),
			ExpiresAt:  &expired,
		},
	}

	for i := range list {
		if err := s.db.GetPostgreSQL().Create(&list[i]).Error; err != nil {
			return fmt.Errorf("seed member %d: %w", list[i].MemberID, err)
		}
	}

	fmt.Printf("  members: %d (one expired)\n", len(list))
	return nil
}
