package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrary_Repair(t *testing.T) {
	t.Parallel()

	t.Run("valid library is untouched", func(t *testing.T) {
		lib := sampleLibrary()
		assert.Empty(t, lib.Repair(7))
		assert.Equal(t, sampleLibrary(), lib)
	})

	t.Run("fixes every invalid field", func(t *testing.T) {
		lib := sampleLibrary()
		lib.Groups[0].Name = " "
		lib.Groups[0].Words[0].StageIndex = 9
		lib.Groups[0].Words[1].GroupID = 2
		lib.Groups[1].ID = 1
		lib.Groups[1].Words[0].ID = 10
		lib.Groups[1].Words[0].StageIndex = -3

		notes := lib.Repair(7)

		assert.Len(t, notes, 7)
		require.NoError(t, lib.Validate())
		assert.Equal(t, "Group 1", lib.Groups[0].Name)
		assert.Equal(t, 6, lib.Groups[0].Words[0].StageIndex)
		assert.Equal(t, int64(1), lib.Groups[0].Words[1].GroupID)

		moved := lib.Groups[1]
		assert.Equal(t, int64(21), moved.ID, "renumbered above the largest id")
		assert.Equal(t, int64(22), moved.Words[0].ID)
		assert.Equal(t, moved.ID, moved.Words[0].GroupID)
		assert.Equal(t, 0, moved.Words[0].StageIndex)
		assert.Equal(t, 3, lib.WordCount(), "nothing is dropped")
	})

	t.Run("zero stages only clamps negatives", func(t *testing.T) {
		lib := sampleLibrary()
		lib.Groups[0].Words[0].StageIndex = 40
		lib.Groups[0].Words[1].StageIndex = -1

		notes := lib.Repair(0)

		assert.Len(t, notes, 1)
		assert.Equal(t, 40, lib.Groups[0].Words[0].StageIndex)
		assert.Equal(t, 0, lib.Groups[0].Words[1].StageIndex)
	})
}
