package archive_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/phrazzld/scry-vocab/internal/archive"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func animals() domain.Group {
	due := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	created := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	return domain.Group{ID: 7, Name: "Animals & Pets", Words: []domain.Word{
		{ID: 8, GroupID: 7, Term: "cat", Definition: "кіт", StageIndex: 2, NextReviewAt: due, CreatedAt: created},
		{ID: 9, GroupID: 7, Term: "dog", Definition: "пес", StageIndex: 0, NextReviewAt: due, CreatedAt: created},
	}}
}

func TestEntryName(t *testing.T) {
	assert.Equal(t, "7-animals-and-pets.json", archive.EntryName(animals()))
	assert.Equal(t, "3.json", archive.EntryName(domain.Group{ID: 3, Name: "!!!"}))
}

func TestExportGroup_BundleRoundTrip(t *testing.T) {
	ctx := context.Background()
	codec := archive.NewCodec(archive.ZipContainer{}, quietLogger())

	data, format, err := codec.ExportGroup(ctx, animals())
	require.NoError(t, err)
	assert.Equal(t, archive.FormatBundle, format)
	assert.True(t, archive.IsContainer(data))

	groups, err := codec.Decode(ctx, data)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	g := groups[0]
	require.NotNil(t, g.ID)
	assert.Equal(t, int64(7), *g.ID)
	assert.Equal(t, "Animals & Pets", g.Name)
	require.Len(t, g.Words, 2)
	assert.Equal(t, 2, *g.Words[0].Stage())
	assert.True(t, animals().Words[0].NextReviewAt.Equal(g.Words[0].Due().Time))
	assert.True(t, animals().Words[0].CreatedAt.Equal(g.Words[0].CreatedAt.Time))
}

func TestExportGroup_FallsBackToDocument(t *testing.T) {
	codec := archive.NewCodec(archive.NoContainer{}, quietLogger())

	data, format, err := codec.ExportGroup(context.Background(), animals())
	require.NoError(t, err)
	assert.Equal(t, archive.FormatDocument, format)
	assert.Equal(t, ".json", format.Extension())

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Animals & Pets", doc["name"])
	words := doc["words"].([]any)
	first := words[0].(map[string]any)
	assert.Equal(t, "2026-05-01T09:30:00Z", first["nextReviewAt"])
	assert.Equal(t, float64(7), first["groupId"])
}

func TestExportAll(t *testing.T) {
	ctx := context.Background()
	groups := []domain.Group{animals(), {ID: 1, Name: "Verbs", Words: []domain.Word{
		{ID: 2, GroupID: 1, Term: "to go", Definition: "йти"},
	}}}

	t.Run("bundle has one entry per group", func(t *testing.T) {
		codec := archive.NewCodec(archive.ZipContainer{}, quietLogger())
		data, format, err := codec.ExportAll(ctx, groups)
		require.NoError(t, err)
		assert.Equal(t, archive.FormatBundle, format)

		entries, err := archive.ZipContainer{}.Unpack(ctx, data)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "7-animals-and-pets.json", entries[0].Name)
		assert.Equal(t, "1-verbs.json", entries[1].Name)

		decoded, err := codec.Decode(ctx, data)
		require.NoError(t, err)
		assert.Len(t, decoded, 2)
	})

	t.Run("document fallback uses groups key", func(t *testing.T) {
		codec := archive.NewCodec(nil, quietLogger())
		data, format, err := codec.ExportAll(ctx, groups)
		require.NoError(t, err)
		assert.Equal(t, archive.FormatDocument, format)

		var bundle archive.BundleDocument
		require.NoError(t, json.Unmarshal(data, &bundle))
		assert.Len(t, bundle.Groups, 2)

		decoded, err := codec.Decode(ctx, data)
		require.NoError(t, err)
		require.Len(t, decoded, 2)
		assert.Nil(t, decoded[1].Words[0].Due(), "unset times stay absent")
	})
}

func TestDecode_LegacyShape(t *testing.T) {
	codec := archive.NewCodec(archive.ZipContainer{}, quietLogger())
	doc := `{"groups":[{"id":1700000000000,"name":"Старі","words":[
		{"id":1700000000001,"groupId":1700000000000,"term":"cat","definition":"кіт","intervalIndex":4,"nextReview":1714555800000}
	]}]}`

	groups, err := codec.Decode(context.Background(), []byte(doc))

	require.NoError(t, err)
	require.Len(t, groups, 1)
	w := groups[0].Words[0]
	assert.Equal(t, 4, *w.Stage())
	assert.Equal(t, time.UnixMilli(1714555800000).UTC(), w.Due().Time)
	assert.Nil(t, w.CreatedAt)
}

func TestDecode_SkipsBadEntries(t *testing.T) {
	ctx := context.Background()
	codec := archive.NewCodec(archive.ZipContainer{}, quietLogger())

	good, err := json.Marshal(archive.FromGroup(animals()))
	require.NoError(t, err)
	data, err := archive.ZipContainer{}.Pack(ctx, []archive.Entry{
		{Name: "1-good.json", Data: good},
		{Name: "2-broken.json", Data: []byte(`{"name": "x", "words": [`)},
		{Name: "3-nameless.json", Data: []byte(`{"id": 3, "name": "  ", "words": []}`)},
		{Name: "readme.txt", Data: []byte("ignored")},
	})
	require.NoError(t, err)

	groups, err := codec.Decode(ctx, data)

	require.Len(t, groups, 1)
	assert.Equal(t, "Animals & Pets", groups[0].Name)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidFormat))
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, 2)

	var ferr *archive.FormatError
	require.ErrorAs(t, merr.Errors[1], &ferr)
	assert.Equal(t, "3-nameless.json", ferr.Entry)
}

func TestDecode_BundleWithInvalidGroup(t *testing.T) {
	codec := archive.NewCodec(nil, quietLogger())
	doc := `{"groups":[{"name":"ok","words":[{"term":"a","definition":"b"}]},{"words":[]},{"name":"bad word","words":[{"term":"","definition":"x"}]}]}`

	groups, err := codec.Decode(context.Background(), []byte(doc))

	require.Len(t, groups, 1)
	assert.Nil(t, groups[0].ID)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
}

func TestDecode_Garbage(t *testing.T) {
	codec := archive.NewCodec(nil, quietLogger())

	groups, err := codec.Decode(context.Background(), []byte("hello"))

	assert.Empty(t, groups)
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestDecode_ZipWithoutContainerSupport(t *testing.T) {
	ctx := context.Background()
	data, _, err := archive.NewCodec(archive.ZipContainer{}, quietLogger()).ExportGroup(ctx, animals())
	require.NoError(t, err)

	_, err = archive.NewCodec(archive.NoContainer{}, quietLogger()).Decode(ctx, data)

	assert.ErrorIs(t, err, archive.ErrContainerUnsupported)
}

func TestTimestamp_Unmarshal(t *testing.T) {
	var ts archive.Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2026-01-02T03:04:05+02:00"`), &ts))
	assert.Equal(t, time.Date(2026, 1, 2, 1, 4, 5, 0, time.UTC), ts.Time)

	require.NoError(t, json.Unmarshal([]byte(`1000`), &ts))
	assert.Equal(t, time.Unix(1, 0).UTC(), ts.Time)

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Nil(t, archive.NewTimestamp(time.Time{}))
}

func TestDecode_UnreadableScheduleFields(t *testing.T) {
	codec := archive.NewCodec(nil, quietLogger())
	doc := `{"name":"Animals","words":[
		{"term":"cat","definition":"кіт","stageIndex":-1},
		{"term":"dog","definition":"пес","stageIndex":"x","nextReviewAt":"garbage","createdAt":{}},
		{"term":"cow","definition":"корова","stageIndex":2.5,"intervalIndex":null,"nextReview":true},
		{"term":"owl","definition":"сова","stageIndex":3,"nextReviewAt":"2026-05-01T09:30:00Z"}
	]}`

	groups, err := codec.Decode(context.Background(), []byte(doc))

	require.NoError(t, err)
	require.Len(t, groups, 1)
	words := groups[0].Words
	require.Len(t, words, 4, "bad fields do not drop the group")

	require.NotNil(t, words[0].Stage())
	assert.Equal(t, -1, *words[0].Stage(), "range is checked when merging")

	assert.Nil(t, words[1].Stage())
	assert.Nil(t, words[1].Due())
	assert.Nil(t, words[1].CreatedAt)
	assert.Equal(t, "dog", words[1].Term)

	assert.Nil(t, words[2].Stage())
	assert.Nil(t, words[2].Due())

	assert.Equal(t, 3, *words[3].Stage())
	assert.Equal(t, time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC), words[3].Due().Time)
}

func TestDecode_BlankTermRejectsGroup(t *testing.T) {
	codec := archive.NewCodec(nil, quietLogger())

	groups, err := codec.Decode(context.Background(), []byte(`{"name":"Animals","words":[{"term":"  ","definition":"кіт"}]}`))

	assert.Empty(t, groups)
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	assert.Contains(t, err.Error(), "notblank")
}
