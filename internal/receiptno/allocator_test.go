package receiptno

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingLocker struct {
	mu       sync.Mutex
	keys     []string
	released int
	err      error
}

func (l *recordingLocker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.keys = append(l.keys, key)
	return func() {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
	}, nil
}

func setupAllocator(t *testing.T, locker PeriodLocker, template string) (*Allocator, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&Sequence{}))

	a, err := NewAllocator(conn, zap.NewNop(), locker, nil, template)
	require.NoError(t, err)
	return a, conn
}

func TestAllocator_SequentialWithinYear(t *testing.T) {
	locker := &recordingLocker{}
	a, _ := setupAllocator(t, locker, "")
	ctx := context.Background()
	at := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		got, err := a.Next(ctx, nil, at)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("AR-2026-%06d", i), got)
	}

	assert.Equal(t, []string{"receipt:lock:2026", "receipt:lock:2026", "receipt:lock:2026"}, locker.keys)
	assert.Equal(t, 3, locker.released)
}

func TestAllocator_RestartsEachYear(t *testing.T) {
	a, _ := setupAllocator(t, nil, "")
	ctx := context.Background()

	_, err := a.Next(ctx, nil, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	last, err := a.Next(ctx, nil, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "AR-2025-000002", last)

	first, err := a.Next(ctx, nil, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "AR-2026-000001", first)
}

func TestAllocator_RollsBackWithCallerTransaction(t *testing.T) {
	a, conn := setupAllocator(t, nil, "")
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	errAbort := errors.New("insert failed")
	err := conn.Transaction(func(tx *gorm.DB) error {
		got, err := a.Next(ctx, tx, at)
		require.NoError(t, err)
		assert.Equal(t, "AR-2026-000001", got)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	got, err := a.Next(ctx, nil, at)
	require.NoError(t, err)
	assert.Equal(t, "AR-2026-000001", got)
}

func TestAllocator_LockFailure(t *testing.T) {
	a, conn := setupAllocator(t, &recordingLocker{err: ErrLockTimeout}, "")

	_, err := a.Next(context.Background(), nil, time.Now())
	assert.ErrorIs(t, err, ErrLockTimeout)

	var count int64
	require.NoError(t, conn.Model(&Sequence{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNewAllocator_RejectsBadTemplate(t *testing.T) {
	_, err := NewAllocator(nil, zap.NewNop(), nil, nil, "AR-{YYYY}")
	assert.Error(t, err)
}

func TestLocker_NilClient(t *testing.T) {
	assert.Nil(t, NewLocker(nil))

	var l *Locker
	_, ok, err := l.TryLock(context.Background(), "k", time.Second)
	assert.False(t, ok)
	assert.Error(t, err)
	assert.NoError(t, l.Release(context.Background(), "k", "t"))
}
