package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadURLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := `# nightly batch
https://www.amazon.com/dp/B01N5IYGQH

https://www.ebay.com/itm/123456
   # indented comment
  https://example.com/product/7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	urls, err := readURLFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://www.amazon.com/dp/B01N5IYGQH",
		"https://www.ebay.com/itm/123456",
		"https://example.com/product/7",
	}, urls)
}

func TestReadURLFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("# comments only\n\n"), 0o644))

	urls, err := readURLFile(path)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestReadURLFileMissing(t *testing.T) {
	_, err := readURLFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
