// Package devseed populates a development database with a demo account and a
// generated set of projects and tasks.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"connectrpc.com/connect"
	"github.com/brianvoe/gofakeit/v7"

	"github.com/stolasapp/tracker/internal/sec"
	"github.com/stolasapp/tracker/internal/storage/db"
	"github.com/stolasapp/tracker/internal/tracker"
)

// Demo account credentials.
const (
	DemoUsername = "demo"
	DemoEmail    = "demo@example.com"
	DemoPassword = "tracker-demo"
)

// Corpus generation constants.
const (
	minProjects      = 3
	maxExtraProjects = 4 // 3-6 projects total
	minTasks         = 2
	maxExtraTasks    = 8 // 2-9 tasks per project
	maxTitleWords    = 5
	dueProbability   = 0.6
)

var (
	statuses   = []string{"active", "active", "on-hold", "done"}
	priorities = []string{"low", "medium", "high"}
)

// Seed returns seed, or a random value if it is zero.
func Seed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return rand.Uint64() //nolint:gosec // intentionally weak random for test data
}

// Run creates the demo account and fills it with generated data. It does
// nothing if the demo account already exists, so it is safe to call on every
// start.
func Run(ctx context.Context, logger *slog.Logger, svc *tracker.Service, seed uint64) error {
	user, err := svc.Register(ctx, DemoUsername, DemoEmail, DemoPassword)
	if connect.CodeOf(err) == connect.CodeAlreadyExists {
		logger.DebugContext(ctx, "demo account exists, skipping seed")
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to create demo account: %w", err)
	}

	ctx = sec.SetIdentity(ctx, sec.Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	faker := gofakeit.New(seed)
	now := time.Now()

	numProjects := minProjects + faker.IntN(maxExtraProjects)
	var numTasks int
	for range numProjects {
		project, err := svc.CreateProject(ctx, db.Project{
			Name:        faker.AppName(),
			Description: sql.NullString{String: faker.Sentence(12), Valid: true},
			Status:      statuses[faker.IntN(len(statuses))],
			DueTime:     dueTime(faker, now),
		})
		if err != nil {
			return fmt.Errorf("failed to create demo project: %w", err)
		}

		n := minTasks + faker.IntN(maxExtraTasks)
		for range n {
			_, err = svc.CreateTask(ctx, db.Task{
				ProjectID:   project.ID,
				Title:       faker.Sentence(3 + faker.IntN(maxTitleWords)),
				Description: sql.NullString{String: faker.Sentence(20), Valid: faker.Bool()},
				Completed:   faker.Bool(),
				Priority:    sql.NullString{String: priorities[faker.IntN(len(priorities))], Valid: true},
				DueTime:     dueTime(faker, now),
			})
			if err != nil {
				return fmt.Errorf("failed to create demo task: %w", err)
			}
		}
		numTasks += n
	}

	logger.InfoContext(ctx, "seeded demo account",
		slog.String("email", DemoEmail),
		slog.Uint64("seed", seed),
		slog.Int("projects", numProjects),
		slog.Int("tasks", numTasks),
	)
	return nil
}

func dueTime(faker *gofakeit.Faker, now time.Time) sql.NullTime {
	if faker.Float64() >= dueProbability {
		return sql.NullTime{}
	}
	due := faker.DateRange(now.AddDate(0, -1, 0), now.AddDate(0, 3, 0))
	return sql.NullTime{Time: due.UTC().Truncate(time.Second), Valid: true}
}
