package filestore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "data", "library.json"),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s
}

func library() *domain.Library {
	due := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	return &domain.Library{Groups: []domain.Group{
		{ID: 1, Name: "Animals", Words: []domain.Word{
			{ID: 2, GroupID: 1, Term: "cat", Definition: "кіт", StageIndex: 2, NextReviewAt: due},
		}},
		{ID: 3, Name: "Empty", Words: []domain.Word{}},
	}}
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)

	lib, err := s.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, lib.Groups)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, library()))
	got, err := s.Load(ctx)
	require.NoError(t, err)

	require.Len(t, got.Groups, 2)
	assert.Equal(t, "кіт", got.Groups[0].Words[0].Definition)
	assert.True(t, got.Groups[0].Words[0].NextReviewAt.Equal(library().Groups[0].Words[0].NextReviewAt))
	assert.NotNil(t, got.Groups[1].Words)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestLoad_CorruptFileMovedAside(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"groups": [`), 0o600))

	lib, err := s.Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrCorrupt)
	require.NotNil(t, lib)
	assert.Empty(t, lib.Groups)

	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(s.Path() + ".corrupt-1700000000")
	assert.NoError(t, statErr)
}

func TestLoad_InvalidLibraryIsCorrupt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	doc := `{"version":1,"groups":[{"id":1,"name":"","words":[]}]}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(doc), 0o600))

	lib, err := s.Load(context.Background())

	assert.ErrorIs(t, err, store.ErrCorrupt)
	require.NotNil(t, lib)
	require.Len(t, lib.Groups, 1)
	assert.Equal(t, "Group 1", lib.Groups[0].Name)
	_, statErr := os.Stat(s.Path() + ".corrupt-1700000000")
	assert.NoError(t, statErr, "original kept aside")
}

func TestLoad_RepairsStageAndOwnership(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	doc := `{"version":1,"groups":[{"id":1,"name":"Animals","words":[
		{"id":2,"groupId":5,"term":"cat","definition":"кіт","stageIndex":-4},
		{"id":3,"groupId":1,"term":"dog","definition":"пес","stageIndex":2}
	]}]}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(doc), 0o600))

	lib, err := s.Load(context.Background())

	assert.ErrorIs(t, err, store.ErrCorrupt)
	require.NoError(t, lib.Validate())
	words := lib.Groups[0].Words
	require.Len(t, words, 2)
	assert.Equal(t, int64(1), words[0].GroupID)
	assert.Equal(t, 0, words[0].StageIndex)
	assert.Equal(t, 2, words[1].StageIndex)

	require.NoError(t, s.Save(context.Background(), lib))
	reloaded, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.WordCount())
}

func TestSave_InvalidLibraryRejected(t *testing.T) {
	s := newTestStore(t)
	lib := library()
	lib.Groups[1].ID = 1

	err := s.Save(context.Background(), lib)

	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr), "nothing written")
}

func TestSave_UnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	s := New(filepath.Join(blocker, "library.json"), nil)
	err := s.Save(context.Background(), library())

	assert.True(t, store.IsStorageError(err))
}
