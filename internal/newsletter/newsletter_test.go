package newsletter

import (
	"context"
	"testing"
	"time"

	"github.com/bilgisen/finsmart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewService(store)
}

func TestSubscribe(t *testing.T) {
	svc := newTestService(t)
	first := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	sub, created, err := svc.Subscribe(context.Background(), "  Reader@Example.com ", models.RegionEurope)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "reader@example.com", sub.Email)
	assert.Equal(t, models.RegionEurope, sub.Region)

	svc.now = func() time.Time { return first.Add(time.Hour) }
	again, created, err := svc.Subscribe(context.Background(), "reader@example.com", models.RegionAsia)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first, again.SubscribedAt)
	assert.Equal(t, models.RegionEurope, again.Region)
}

func TestSubscribeRejectsInvalidEmail(t *testing.T) {
	svc := newTestService(t)
	for _, email := range []string{"", "not-an-email", "a@"} {
		_, _, err := svc.Subscribe(context.Background(), email, "")
		assert.ErrorIs(t, err, ErrInvalidEmail, email)
	}
}

func TestListOrdersBySubscriptionTime(t *testing.T) {
	svc := newTestService(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, email := range []string{"c@example.com", "a@example.com", "b@example.com"} {
		at := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		_, _, err := svc.Subscribe(context.Background(), email, "")
		require.NoError(t, err)
	}

	subs, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Equal(t, "c@example.com", subs[0].Email)
	assert.Equal(t, "b@example.com", subs[2].Email)
}

func TestUnsubscribe(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Subscribe(ctx, "leaving@example.com", "")
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(ctx, "Leaving@Example.com"))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, "leaving@example.com"), ErrNotFound)

	subs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*S3Store)(nil)
)
