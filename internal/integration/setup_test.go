package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "migrations")
	files, err := os.ReadDir(migDir)
	require.NoError(t, err, "read migrations")

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(migDir, name))
		require.NoError(t, err)
		_, err = db.Exec(context.Background(), string(b))
		require.NoError(t, err, "apply migration %s", name)
	}
}

// connect skips the test unless DATABASE_URL points at a disposable database.
func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err, "connect db")
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

var mobileSeq atomic.Int64

// uniqueMobile keeps runs against a shared database from colliding.
func uniqueMobile() string {
	n := time.Now().UnixNano()%1_000_000_000 + mobileSeq.Add(1)
	return fmt.Sprintf("7%010d", n%10_000_000_000)
}

func createUser(t *testing.T, db *pgxpool.Pool) *domain.User {
	t.Helper()
	u := &domain.User{
		Mobile:       uniqueMobile(),
		Email:        "it@example.com",
		Name:         "Integration",
		PasswordHash: "x",
		Role:         domain.RoleCustomer,
		Status:       domain.AccountActive,
	}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), u))
	return u
}
