package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio-backend/internal/domain"
)

func TestCollection_RoundTrip(t *testing.T) {
	c, err := OpenCollection[domain.Project](filepath.Join(t.TempDir(), "projects.json"))
	require.NoError(t, err)
	ctx := context.Background()

	created := time.Date(2024, 3, 2, 10, 30, 0, 0, time.UTC)
	want := []domain.Project{
		{ID: "1", Heading: "One", Description: "first", TechStacks: []string{"Go"}, CreatedAt: created},
		{ID: "2", Heading: "Two", Description: "second", Image: "/uploads/2.png", TechStacks: []string{}, LiveLink: "https://two.dev", CreatedAt: created.Add(time.Minute)},
	}
	require.NoError(t, c.Save(ctx, want))

	got, err := c.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Heading, got[i].Heading)
		assert.Equal(t, want[i].Image, got[i].Image)
		assert.Equal(t, want[i].TechStacks, got[i].TechStacks)
		assert.Equal(t, want[i].LiveLink, got[i].LiveLink)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
	}
}

func TestCollection_OpenKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"_id":"7","name":"Jo","email":"jo@x.com","message":"hi","createdAt":"2024-01-01T00:00:00Z"}]`), 0o644))

	c, err := OpenCollection[domain.Message](path)
	require.NoError(t, err)

	got, err := c.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "7", got[0].ID)
}

func TestCollection_EmptyFileIsEmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	c, err := OpenCollection[domain.Message](path)
	require.NoError(t, err)

	got, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCollection_MalformedFileIsStorageError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"_id":`), 0o644))

	c, err := OpenCollection[domain.Project](path)
	require.NoError(t, err)

	_, err = c.Load(context.Background())
	var serr *domain.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "decode", serr.Op)
}

func TestCollection_MutateErrorWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	c, err := OpenCollection[domain.Project](path)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = c.Mutate(context.Background(), func(p []domain.Project) ([]domain.Project, error) {
		return append(p, domain.Project{ID: "x"}), boom
	})
	assert.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestCollection_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	c, err := OpenCollection[domain.Message](filepath.Join(dir, "messages.json"))
	require.NoError(t, err)

	require.NoError(t, c.Save(context.Background(), []domain.Message{{ID: "1", Name: "a"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "messages.json", entries[0].Name())
}
