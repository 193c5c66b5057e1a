package main

import (
	"bytes"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteResults(t *testing.T) {
	t.Parallel()

	t.Run("single value as json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, writeResults(&buf, "json", []any{"hello"}))
		assert.Equal(t, "\"hello\"\n", buf.String())
	})

	t.Run("no values prints true", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, writeResults(&buf, "yaml", nil))
		assert.Equal(t, "true\n", buf.String())
	})

	t.Run("several values as yaml list", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, writeResults(&buf, "yaml", []any{"a", 1}))
		assert.Equal(t, "- a\n- 1\n", buf.String())
	})

	t.Run("xml elements print as text", func(t *testing.T) {
		t.Parallel()
		doc := etree.NewDocument()
		doc.CreateElement("root").CreateElement("item").SetText("x")

		var buf bytes.Buffer
		require.NoError(t, writeResults(&buf, "json", []any{doc.Root()}))
		assert.Contains(t, buf.String(), "\\u003citem\\u003ex\\u003c/item\\u003e")
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		assert.Error(t, writeResults(&buf, "toml", []any{1}))
	})
}
