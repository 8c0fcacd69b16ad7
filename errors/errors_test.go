package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("wrapped sentinels stay detectable", func(t *testing.T) {
		err := Wrapf(ErrNotFound, "certificate %d", 42)
		assert.True(t, Is(err, ErrNotFound))
		assert.True(t, IsNotFoundError(err))
		assert.Contains(t, err.Error(), "certificate 42")
	})

	t.Run("sentinels are distinct", func(t *testing.T) {
		assert.False(t, Is(ErrFileExists, ErrFolderMissing))
		assert.False(t, IsNotFoundError(ErrTaskExists))
	})

	t.Run("nil is not a not-found error", func(t *testing.T) {
		assert.False(t, IsNotFoundError(nil))
	})
}

func TestWrappingPreservesStackTraces(t *testing.T) {
	err := Wrap(New("inner"), "outer")
	require.Error(t, err)

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go", "stack should reference source file")
}
