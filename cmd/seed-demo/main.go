package main

import (
	"context"
	"fmt"
	"time"

	"github.com/stepwise/stepwise-backend/internal/config"
	"github.com/stepwise/stepwise-backend/internal/database"
	"github.com/stepwise/stepwise-backend/internal/logger"
	"github.com/stepwise/stepwise-backend/internal/model"
	"github.com/stepwise/stepwise-backend/internal/repository"
)

// Seeds a small demo catalog of classes and courses for local development.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	classRepo := repository.NewClassRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)

	fmt.Println("=== Seeding Demo Catalog ===")

	base := time.Now().Add(48 * time.Hour).Truncate(time.Hour)

	classes := []model.Class{
		{
			Title:           "Ballet Foundations",
			Description:     "Barre work, posture, and the five basic positions.",
			Instructor:      "Marta Kowalski",
			PriceCents:      2500,
			DurationMinutes: 60,
			ScheduledAt:     base,
			MaxSpots:        12,
			Category:        model.CategoryBallet,
			Level:           model.LevelBeginner,
		},
		{
			Title:           "Hip Hop Grooves",
			Description:     "Bounce, rock, and foundational party moves.",
			Instructor:      "Deshawn Carter",
			PriceCents:      2000,
			DurationMinutes: 75,
			ScheduledAt:     base.Add(3 * time.Hour),
			MaxSpots:        20,
			Category:        model.CategoryHipHop,
			Level:           model.LevelBeginner,
		},
		{
			Title:           "Salsa Partnerwork Lab",
			Description:     "Cross-body leads and turn patterns for social dancing.",
			Instructor:      "Lucia Fernandez",
			PriceCents:      3000,
			DurationMinutes: 90,
			ScheduledAt:     base.Add(26 * time.Hour),
			MaxSpots:        16,
			Category:        model.CategorySalsa,
			Level:           model.LevelIntermediate,
		},
		{
			Title:           "Contemporary Floorwork Intensive",
			Description:     "Spirals, falls, and momentum-driven phrasing.",
			Instructor:      "Noa Berg",
			PriceCents:      3500,
			DurationMinutes: 120,
			ScheduledAt:     base.Add(50 * time.Hour),
			MaxSpots:        10,
			Category:        model.CategoryContemporary,
			Level:           model.LevelAdvanced,
		},
	}

	for i := range classes {
		if err := classRepo.Create(ctx, &classes[i]); err != nil {
			log.Fatal().Err(err).Str("title", classes[i].Title).Msg("Failed to seed class")
		}
		fmt.Printf("Class: %s (%s)\n", classes[i].Title, classes[i].ID)
	}

	courses := []model.Course{
		{
			Title:       "Ballet From Zero",
			Description: "A self-paced introduction to classical ballet technique.",
			Category:    model.CategoryBallet,
			Level:       model.LevelBeginner,
			Lessons: []model.Lesson{
				{Title: "Posture and Alignment", VideoURL: "https://cdn.stepwise.example/ballet-01.mp4", DurationMinutes: 18},
				{Title: "The Five Positions", VideoURL: "https://cdn.stepwise.example/ballet-02.mp4", DurationMinutes: 22},
				{Title: "Plies and Releves", VideoURL: "https://cdn.stepwise.example/ballet-03.mp4", DurationMinutes: 25},
			},
		},
		{
			Title:       "Jazz Technique Essentials",
			Description: "Isolations, kicks, and turns for musical theatre jazz.",
			Category:    model.CategoryJazz,
			Level:       model.LevelIntermediate,
			Lessons: []model.Lesson{
				{Title: "Isolations Warmup", VideoURL: "https://cdn.stepwise.example/jazz-01.mp4", DurationMinutes: 15},
				{Title: "Battements and Kicks", VideoURL: "https://cdn.stepwise.example/jazz-02.mp4", DurationMinutes: 20},
				{Title: "Pirouette Preparation", VideoURL: "https://cdn.stepwise.example/jazz-03.mp4", DurationMinutes: 24},
				{Title: "Combination: Full Routine", VideoURL: "https://cdn.stepwise.example/jazz-04.mp4", DurationMinutes: 30},
			},
		},
	}

	for i := range courses {
		if err := courseRepo.Create(ctx, &courses[i]); err != nil {
			log.Fatal().Err(err).Str("title", courses[i].Title).Msg("Failed to seed course")
		}
		fmt.Printf("Course: %s (%s, %d lessons)\n", courses[i].Title, courses[i].ID, len(courses[i].Lessons))
	}

	fmt.Println("Done.")
}
