package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/pgd-harmeet/shipstation-triggers/internal/config"
	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/sheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func integrationConfig(t *testing.T) config.PostgresConfig {
	t.Helper()
	if os.Getenv("POSTGRES_HOST") == "" {
		t.Skip("POSTGRES_HOST not set")
	}
	// .env is loaded in TestMain
	cfg, err := config.Load()
	require.NoError(t, err, "load config failed")
	return cfg.DB
}

func TestNewPool_WithEnv(t *testing.T) {
	pool, err := NewPool(integrationConfig(t))
	require.NoError(t, err, "NewPool failed")
	require.NotNil(t, pool, "pool should not be nil")

	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = pool.Ping(ctx)
	require.NoError(t, err, "ping database failed")
}

func TestOrderSheetRepository_RoundTrip(t *testing.T) {
	pool, err := NewPool(integrationConfig(t))
	require.NoError(t, err)
	defer pool.Close()

	ctx := context.Background()
	repo := NewOrderSheetRepository(pool)
	s, err := sheet.NewOrderSheet(time.Now().UnixNano(), "roundtrip", "H\nD\n", time.Now())
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, s))
	assert.ErrorIs(t, repo.Save(ctx, s), sheet.ErrSheetExists)

	got, err := repo.FindByName(ctx, s.Container, s.Name)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.Body, got.Body)
	assert.Equal(t, s.OrderID, got.OrderID)

	_, err = pool.Exec(ctx, `DELETE FROM order_sheets WHERE id = $1`, s.ID)
	require.NoError(t, err)
}
