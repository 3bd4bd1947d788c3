package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aiignite/admind/internal/config"
	"github.com/aiignite/admind/internal/mentor"
	"github.com/aiignite/admind/internal/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a demo admin account, team and mentor",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

const (
	seedAdminEmail    = "admin@aiignite.local"
	seedAdminPassword = "admin-dev-password"
)

var demoMembers = []struct {
	name, email, track string
}{
	{"Asha Verma", "asha@example.com", "GenAI"},
	{"Rohit Nair", "rohit@example.com", "GenAI"},
	{"Meera Iyer", "meera@example.com", "Computer Vision"},
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	userStore := user.NewStore(pool, cfg.Auth.SessionTTL)

	// Check if seed has already run.
	if existing, err := userStore.GetByEmail(ctx, seedAdminEmail); err == nil && existing != nil {
		slog.Info("demo data already exists, skipping seed")
		return nil
	}

	admin, err := userStore.Create(ctx, user.CreateUserInput{
		Email:    seedAdminEmail,
		Password: seedAdminPassword,
		Name:     "Demo Admin",
		Role:     "admin",
	})
	if err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}
	if _, err := pool.Exec(ctx,
		`INSERT INTO admin_users (user_id) VALUES ($1) ON CONFLICT DO NOTHING`,
		admin.ID); err != nil {
		return fmt.Errorf("granting admin role: %w", err)
	}
	slog.Info("created admin account", "id", admin.ID, "email", admin.Email)

	// Demo team with members.
	teamID := uuid.NewString()
	if _, err := pool.Exec(ctx,
		`INSERT INTO teams (id, created_by) VALUES ($1, $2)`,
		teamID, admin.ID); err != nil {
		return fmt.Errorf("creating demo team: %w", err)
	}
	for _, dm := range demoMembers {
		if _, err := pool.Exec(ctx,
			`INSERT INTO team_members (member_user_id, team_id, member_name, member_email, preferred_track, is_student)
			 VALUES ($1, $2, $3, $4, $5, true)`,
			uuid.NewString(), teamID, dm.name, dm.email, dm.track); err != nil {
			return fmt.Errorf("creating demo member %q: %w", dm.name, err)
		}
	}
	slog.Info("created demo team", "id", teamID, "members", len(demoMembers))

	// Demo mentor with open slots.
	mentorService := mentor.NewService(mentor.NewStore(pool))
	m, err := mentorService.CreateWithSlots(ctx, mentor.CreateMentorInput{
		Name:        "Dr. Kavita Rao",
		Designation: "Principal ML Engineer",
		Email:       "kavita@example.com",
		Slots: []mentor.SlotDraft{
			{Date: "2026-09-12", StartTime: "10:00", EndTime: "10:30"},
			{Date: "2026-09-12", StartTime: "11:00", EndTime: "11:30"},
			{Date: "2026-09-13", StartTime: "15:00", EndTime: "15:30"},
		},
	})
	if err != nil {
		return fmt.Errorf("creating demo mentor: %w", err)
	}
	slog.Info("created demo mentor", "id", m.ID, "name", m.Name)

	// A booked session awaiting its meeting link.
	bookingID := uuid.NewString()
	if _, err := pool.Exec(ctx,
		`INSERT INTO mentoring_sessions
		   (id, team_id, team_name, mentor_id, mentor_name, mentor_designation,
		    slot_date, start_time, end_time, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'booked')`,
		bookingID, teamID, "Team Nova", m.ID, m.Name, m.Designation,
		"2026-09-12", "10:00", "10:30"); err != nil {
		return fmt.Errorf("creating demo booking: %w", err)
	}

	fmt.Printf("\n=== Demo Data Seeded ===\n")
	fmt.Printf("Admin:    %s / %s\n", seedAdminEmail, seedAdminPassword)
	fmt.Printf("Team:     %s (%d members)\n", teamID, len(demoMembers))
	fmt.Printf("Mentor:   %s\n", m.Name)
	fmt.Printf("Booking:  %s (awaiting meeting link)\n", bookingID)
	fmt.Printf("\nTry it:\n")
	fmt.Printf("  curl -X POST localhost:8080/api/v1/auth/login -d '{\"email\":%q,\"password\":%q}'\n", seedAdminEmail, seedAdminPassword)
	fmt.Printf("  curl -X PUT -H 'Authorization: Bearer <token>' localhost:8080/api/v1/bookings/%s/meeting-link -d '{\"meeting_link\":\"https://meet.example/nova\"}'\n", bookingID)

	return nil
}
