package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssetManager(t *testing.T) {
	am := NewManager()

	t.Run("GetText", func(t *testing.T) {
		text, err := am.GetText(PromptsFile)
		assert.NoError(t, err)
		assert.Contains(t, text, "strict:")
		assert.Contains(t, text, "props:")

		_, err = am.GetText("non_existent.txt")
		assert.Error(t, err)
	})

	t.Run("GetRawText", func(t *testing.T) {
		data, err := am.GetRawText(FiltersFile)
		assert.NoError(t, err)
		assert.NotEmpty(t, data)

		_, err = am.GetRawText("")
		assert.Error(t, err)
	})
}
