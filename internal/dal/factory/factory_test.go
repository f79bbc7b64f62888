package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/stack-ranker/internal/dal"
	"github.com/jonathan/stack-ranker/internal/dal/memory"
	"github.com/jonathan/stack-ranker/internal/logging"
)

func TestNew_InMemoryWhenForced(t *testing.T) {
	store, err := New(context.Background(), dal.Options{UseInMemory: true, DatabaseURL: "postgres://ignored"}, logging.NewNop())

	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
}

func TestNew_InMemoryWhenNoDatabaseURL(t *testing.T) {
	store, err := New(context.Background(), dal.Options{}, logging.NewNop())

	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
}

func TestOptionsInMemory(t *testing.T) {
	assert.True(t, dal.Options{}.InMemory())
	assert.True(t, dal.Options{UseInMemory: true, DatabaseURL: "postgres://x"}.InMemory())
	assert.False(t, dal.Options{DatabaseURL: "postgres://x"}.InMemory())
}
