package nullifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreMarksFirstUseOnly(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	fresh, err := s.MarkSeen(ctx, "0xabc", time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = s.MarkSeen(ctx, "0xabc", time.Hour)
	require.NoError(t, err)
	assert.False(t, fresh)

	fresh, err = s.MarkSeen(ctx, "0xdef", time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2025, 8, 26, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	fresh, err := s.MarkSeen(context.Background(), "0xabc", time.Minute)
	require.NoError(t, err)
	require.True(t, fresh)

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	fresh, err = s.MarkSeen(context.Background(), "0xabc", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh, "expired nullifier should be reusable")
}
