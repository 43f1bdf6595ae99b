package repository

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"civicpulse/portal/internal/config"
	"civicpulse/portal/internal/database"
	"civicpulse/portal/internal/models"
)

// newTestPool connects to CIVICPULSE_TEST_DATABASE_URL, drops the public schema
// and migrates it from scratch. Tests skip when the variable is unset.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := strings.TrimSpace(os.Getenv("CIVICPULSE_TEST_DATABASE_URL"))
	if dsn == "" {
		t.Skip("CIVICPULSE_TEST_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, config.PostgresConfig{DSN: dsn, MaxOpen: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	for _, stmt := range []string{`DROP SCHEMA IF EXISTS public CASCADE`, `CREATE SCHEMA public`} {
		_, err = pool.Exec(ctx, stmt)
		require.NoError(t, err)
	}
	_, err = database.Migrate(ctx, pool)
	require.NoError(t, err)
	return pool
}

func createUser(t *testing.T, repo *UserRepository, username, district string, role models.UserRole) models.User {
	t.Helper()
	user, err := repo.Create(context.Background(), models.User{
		Username:     username,
		PasswordHash: "hash-" + username,
		District:     district,
		Role:         role,
	})
	require.NoError(t, err)
	return user
}

func createIncident(t *testing.T, repo *IncidentRepository, owner models.User, district, title string) models.Incident {
	t.Helper()
	incident, err := repo.Create(context.Background(), models.Incident{
		UserID:   owner.ID,
		Title:    title,
		Category: "Roads",
		District: district,
		Severity: "High",
		Status:   models.IncidentStatusPending,
	})
	require.NoError(t, err)
	return incident
}

func incidentIDs(incidents []models.Incident) []int64 {
	out := make([]int64, 0, len(incidents))
	for _, i := range incidents {
		out = append(out, i.ID)
	}
	return out
}
