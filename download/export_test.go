package download

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjacob/kangaroo/cert"
	"github.com/sanjacob/kangaroo/errors"
)

func completedTask(t *testing.T, batch, size int) *Task {
	t.Helper()
	fetcher := FetchFunc(func(ctx context.Context, number int) (*cert.Record, error) {
		return fakeRecord(number), nil
	})
	task, err := NewTask(batch, size, fetcher, nil)
	require.NoError(t, err)
	require.NoError(t, task.Run(context.Background()))
	return task
}

func TestTaskSave(t *testing.T) {
	t.Run("writes records as JSON with checksums", func(t *testing.T) {
		task := completedTask(t, 7, 3)
		folder := t.TempDir()

		result, err := task.Save(folder, "", false)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(folder, "certificate_data_007.json"), result.Path)
		assert.Greater(t, result.Bytes, int64(0))
		assert.Len(t, result.MD5, 32)
		assert.Len(t, result.SHA1, 40)
		assert.Equal(t, StateSaved, task.State())

		data, err := os.ReadFile(result.Path)
		require.NoError(t, err)
		assert.Equal(t, result.Bytes, int64(len(data)))

		var records []cert.Record
		require.NoError(t, json.Unmarshal(data, &records))
		require.Len(t, records, 3)
		assert.Equal(t, task.FirstNumber(), records[0].Number)
	})

	t.Run("refuses a missing folder", func(t *testing.T) {
		task := completedTask(t, 1, 1)

		_, err := task.Save(filepath.Join(t.TempDir(), "nope"), "", false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrFolderMissing))
	})

	t.Run("refuses to overwrite unless told to", func(t *testing.T) {
		task := completedTask(t, 2, 1)
		folder := t.TempDir()

		_, err := task.Save(folder, "", false)
		require.NoError(t, err)

		_, err = task.Save(folder, "", false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrFileExists))

		_, err = task.Save(folder, "", true)
		require.NoError(t, err)
	})

	t.Run("rejects a format with no placeholder", func(t *testing.T) {
		task := completedTask(t, 1, 1)

		_, err := task.Save(t.TempDir(), "static-name.json", false)
		require.Error(t, err)
	})

	t.Run("honors a custom filename format", func(t *testing.T) {
		task := completedTask(t, 12, 1)
		folder := t.TempDir()

		result, err := task.Save(folder, "batch-%d.json", false)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(folder, "batch-12.json"), result.Path)
	})
}
