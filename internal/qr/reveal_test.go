package qr_test

import (
	"testing"

	"github.com/serroba/shortlink-client/internal/links"
	"github.com/serroba/shortlink-client/internal/qr"
	"github.com/stretchr/testify/assert"
)

func TestRevealController_Toggle(t *testing.T) {
	t.Run("starts with nothing shown", func(t *testing.T) {
		r := qr.NewRevealController()

		_, shown := r.Selected()

		assert.False(t, shown)
	})

	t.Run("toggling twice hides again", func(t *testing.T) {
		r := qr.NewRevealController()

		code, shown := r.Toggle("abc")
		assert.True(t, shown)
		assert.Equal(t, links.Code("abc"), code)

		_, shown = r.Toggle("abc")
		assert.False(t, shown)
		assert.False(t, r.IsShown("abc"))
	})

	t.Run("a different code replaces the selection", func(t *testing.T) {
		r := qr.NewRevealController()

		r.Toggle("abc")
		code, shown := r.Toggle("xyz")

		assert.True(t, shown)
		assert.Equal(t, links.Code("xyz"), code)
		assert.False(t, r.IsShown("abc"))
		assert.True(t, r.IsShown("xyz"))
	})
}
