package memcache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oneira/internal/models/db_models"
)

func parkedDream() db_models.Dream {
	d := db_models.Dream{
		AccountID: uuid.New(),
		Content:   "a hallway of doors",
		Date:      1700000000,
	}
	d.ID = uuid.New()
	return d
}

func TestTakeIsSingleUse(t *testing.T) {
	store := NewDeletedDreams()
	dream := parkedDream()

	store.Park(dream, time.Minute)

	got := store.Take(dream.ID.String())
	require.NotNil(t, got)
	assert.Equal(t, dream.Content, got.Content)
	assert.Equal(t, dream.AccountID, got.AccountID)

	assert.Nil(t, store.Take(dream.ID.String()))
}

func TestExpiredEntryIsGone(t *testing.T) {
	store := NewDeletedDreams()
	dream := parkedDream()

	store.Park(dream, -time.Second)

	assert.Nil(t, store.Take(dream.ID.String()))
	_, ok := store.Peek(dream.ID.String())
	assert.False(t, ok)
}

func TestPeekDoesNotConsume(t *testing.T) {
	store := NewDeletedDreams()
	dream := parkedDream()

	store.Park(dream, time.Minute)

	got, ok := store.Peek(dream.ID.String())
	require.True(t, ok)
	assert.Equal(t, dream.Content, got.Content)

	assert.NotNil(t, store.Take(dream.ID.String()))
}

func TestParkOverwritesSameID(t *testing.T) {
	store := NewDeletedDreams()
	dream := parkedDream()

	store.Park(dream, time.Minute)
	dream.Content = "updated content"
	store.Park(dream, time.Minute)

	got := store.Take(dream.ID.String())
	require.NotNil(t, got)
	assert.Equal(t, "updated content", got.Content)
}

func TestTakeUnknownID(t *testing.T) {
	store := NewDeletedDreams()
	assert.Nil(t, store.Take(uuid.New().String()))
}
