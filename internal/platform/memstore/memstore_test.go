package memstore_test

import (
	"context"
	"testing"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/memstore"
	"github.com/phrazzld/scry-vocab/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_IsolatesCallerCopies(t *testing.T) {
	ctx := context.Background()
	lib := &domain.Library{Groups: []domain.Group{
		{ID: 1, Name: "Animals", Words: []domain.Word{{ID: 2, GroupID: 1, Term: "cat", Definition: "кіт"}}},
	}}
	s := memstore.New(nil)

	require.NoError(t, s.Save(ctx, lib))
	lib.Groups[0].Words[0].Term = "mutated"

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cat", got.Groups[0].Words[0].Term)

	got.Groups[0].Name = "changed"
	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Animals", again.Groups[0].Name)
	assert.Equal(t, 1, s.Saves())
}

func TestStore_RejectsInvalidAndCancelled(t *testing.T) {
	s := memstore.New(nil)

	err := s.Save(context.Background(), &domain.Library{Groups: []domain.Group{{ID: 1, Name: " "}}})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Load(ctx)
	assert.True(t, store.IsStorageError(err))
	assert.Equal(t, 0, s.Saves())
}
