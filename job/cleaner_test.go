package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"goshortlink/repository"

	"github.com/rShetty/asyncwait"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedRepo(t *testing.T) repository.Repository {
	t.Helper()
	ctx := context.Background()
	db := repository.NewInMemoryRepo()

	expired := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)
	_, err := db.Create(ctx, "stale", "http://example.com/1", nil, &expired)
	require.NoError(t, err)
	_, err = db.Create(ctx, "fresh", "http://example.com/2", nil, &future)
	require.NoError(t, err)
	return db
}

func TestCleaner_Run(t *testing.T) {
	db := seedRepo(t)
	cleaner := NewCleaner(db, zap.NewNop())

	cleaner.Run()

	_, err := db.FindByKey(context.Background(), "stale")
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	_, err = db.FindByKey(context.Background(), "fresh")
	assert.NoError(t, err)
}

func TestCleaner_Start_purges_on_schedule(t *testing.T) {
	db := seedRepo(t)
	cleaner := NewCleaner(db, zap.NewNop())

	require.NoError(t, cleaner.Start("@every 1s"))
	defer cleaner.Stop()

	purged := asyncwait.NewAsyncWait(3000, 100).Check(func() bool {
		_, err := db.FindByKey(context.Background(), "stale")
		return errors.Is(err, repository.ErrRecordNotFound)
	})
	assert.True(t, purged, "expired link should be purged by the scheduled run")

	_, err := db.FindByKey(context.Background(), "fresh")
	assert.NoError(t, err, "unexpired link must survive")
}

func TestCleaner_Start_rejects_bad_schedule(t *testing.T) {
	cleaner := NewCleaner(repository.NewInMemoryRepo(), zap.NewNop())
	assert.Error(t, cleaner.Start("not a schedule"))
}
