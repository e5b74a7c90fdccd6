package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"create stock tables", "create_stock_tables"},
		{"Create-Stock-Tables", "create_stock_tables"},
		{"create__stock__tables", "create_stock_tables"},
		{"Add Workshops 2", "add_workshops_2"},
		{"  padded  ", "padded"},
		{"weird!@#chars", "weirdchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, slugify(tt.input))
		})
	}
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()

	pair, err := Create(dir, "add settlement records", "Settlement records table")
	require.NoError(t, err)
	require.NotNil(t, pair)

	// Version is a YYYYMMDDHHMMSS timestamp
	assert.Len(t, pair.Version, 14)

	upBase := strings.TrimSuffix(filepath.Base(pair.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(pair.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	upContent, err := os.ReadFile(pair.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "add settlement records")
	assert.Contains(t, string(upContent), "Settlement records table")

	downContent, err := os.ReadFile(pair.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "Rollback")
}

func TestCreate_MakesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "db", "migrations")

	_, err := Create(nested, "init", "initial schema")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestList(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"20260810090000_create_catalog_tables.up.sql",
		"20260810090000_create_catalog_tables.down.sql",
		"20260810090100_create_partner_tables.up.sql",
		"20260810090100_create_partner_tables.down.sql",
		"README.md",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- test"), 0644))
	}

	names, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20260810090000_create_catalog_tables",
		"20260810090100_create_partner_tables",
	}, names)
}

func TestList_MissingDirectory(t *testing.T) {
	names, err := List(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
