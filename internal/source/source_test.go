package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCRLF(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\r\nc"))
	assert.True(t, changed)
	assert.Equal(t, "a\nb\nc", string(out))

	out, changed = normalizeCRLF([]byte("plain\ntext"))
	assert.False(t, changed)
	assert.Equal(t, "plain\ntext", string(out))

	// lone \r stays
	out, _ = normalizeCRLF([]byte("a\rb\r\n"))
	assert.Equal(t, "a\rb\n", string(out))
}

func TestRemoveBOM(t *testing.T) {
	out, had := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x'})
	assert.True(t, had)
	assert.Equal(t, "x", string(out))

	out, had = removeBOM([]byte("xy"))
	assert.False(t, had)
	assert.Equal(t, "xy", string(out))
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.nu", []byte("let x = 1\nlet y = 2\n"))

	start, end := fs.Resolve(Span{File: id, Start: 0, End: 9})
	assert.Equal(t, LineCol{Line: 1, Col: 1}, start)
	assert.Equal(t, LineCol{Line: 1, Col: 10}, end)

	start, _ = fs.Resolve(Span{File: id, Start: 10, End: 19})
	assert.Equal(t, LineCol{Line: 2, Col: 1}, start)

	start, _ = fs.Resolve(Span{File: id, Start: 14, End: 19})
	assert.Equal(t, LineCol{Line: 2, Col: 5}, start)
}

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("win.nu", []byte("let a = 1\r\nlet b = 2\r\n"))
	f := fs.Get(id)
	require.NotNil(t, f)
	assert.Equal(t, "let a = 1\nlet b = 2\n", string(f.Content))
}

func TestSpanContainsCover(t *testing.T) {
	outer := Span{File: 1, Start: 0, End: 20}
	inner := Span{File: 1, Start: 5, End: 10}
	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))

	cov := inner.Cover(Span{File: 1, Start: 15, End: 18})
	assert.Equal(t, Span{File: 1, Start: 5, End: 18}, cov)
}
