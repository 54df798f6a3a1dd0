package render

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRunsEffectsAfterRender(t *testing.T) {
	var order []string
	frame := NewFrame()

	view := ViewFunc(func(w io.Writer) error {
		order = append(order, "render")
		return nil
	})
	frame.After(func() { order = append(order, "first") })
	frame.After(func() {
		order = append(order, "second")
		frame.After(func() { order = append(order, "nested") })
	})
	assert.Equal(t, 2, frame.Pending())

	require.NoError(t, Draw(io.Discard, frame, view))
	assert.Equal(t, []string{"render", "first", "second", "nested"}, order)
	assert.Zero(t, frame.Pending())
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text("hello").Render(&buf))
	assert.Equal(t, "hello\n", buf.String())

	buf.Reset()
	require.NoError(t, Empty.Render(&buf))
	assert.Empty(t, buf.String())
}
