package projects

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devplan-ai/devplan-backend/internal/storage/postgres"
)

// setupTestRepo connects to the database named by TEST_DB_DSN and applies
// the schema. Tests are skipped when the variable is unset.
func setupTestRepo(t *testing.T) *Repo {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping database integration test")
	}

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())
	require.NoError(t, postgres.Migrate(sqlDB))
	sqlDB.Close()

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewRepo(pool)
}

func TestRepo_CreateAndGet(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateParams{
		Name:        "Integration Shop",
		Description: "integration test project",
		ProjectType: "ecommerce",
		Frontend:    "React",
		Backend:     "Node.js",
		Database:    "PostgreSQL",
		PlanText:    "the plan",
		PlanModel:   "gpt-3.5-turbo",
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.SoftDelete(ctx, created.PublicID) })

	assert.Regexp(t, `^devplan-\d{5}-\d{4}$`, created.PublicID)
	assert.Equal(t, "Integration Shop", created.Name)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.Get(ctx, created.PublicID)
	require.NoError(t, err)
	assert.Equal(t, created.PublicID, got.PublicID)
	assert.Equal(t, "the plan", got.PlanText)
}

func TestRepo_Create_RequiresName(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Create(context.Background(), CreateParams{})
	assert.Error(t, err)
}

func TestRepo_Update(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateParams{Name: "Before", ProjectType: "api"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.SoftDelete(ctx, created.PublicID) })

	newPlan := "updated plan"
	updated, err := repo.Update(ctx, created.PublicID, UpdateParams{PlanText: &newPlan})
	require.NoError(t, err)

	// Untouched fields keep their values.
	assert.Equal(t, "Before", updated.Name)
	assert.Equal(t, "api", updated.ProjectType)
	assert.Equal(t, "updated plan", updated.PlanText)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))

	renamed, err := repo.Rename(ctx, created.PublicID, "After")
	require.NoError(t, err)
	assert.Equal(t, "After", renamed.Name)
}

func TestRepo_SoftDelete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateParams{Name: "Doomed"})
	require.NoError(t, err)

	ok, err := repo.SoftDelete(ctx, created.PublicID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Get(ctx, created.PublicID)
	assert.True(t, errors.Is(err, ErrNotFound))

	// Deleting twice is a no-op.
	ok, err = repo.SoftDelete(ctx, created.PublicID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepo_ListExcludesDeleted(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	kept, err := repo.Create(ctx, CreateParams{Name: "Kept"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.SoftDelete(ctx, kept.PublicID) })

	gone, err := repo.Create(ctx, CreateParams{Name: "Gone"})
	require.NoError(t, err)
	_, err = repo.SoftDelete(ctx, gone.PublicID)
	require.NoError(t, err)

	items, err := repo.List(ctx)
	require.NoError(t, err)

	var sawKept, sawGone bool
	for _, p := range items {
		if p.PublicID == kept.PublicID {
			sawKept = true
		}
		if p.PublicID == gone.PublicID {
			sawGone = true
		}
	}
	assert.True(t, sawKept)
	assert.False(t, sawGone)
}
