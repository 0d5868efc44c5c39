package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aliases.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTableFile(t *testing.T) {
	path := writeTable(t, `
version = "2026-08-01"

[[instruments]]
symbol = "TCS"
name = "Tata Consultancy Services"
aliases = ["tata consultancy"]

[[instruments]]
symbol = "INFY"
name = "Infosys"
`)

	table, err := LoadTableFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-01", table.Version())
	assert.Equal(t, 2, table.Len())

	entry, ok := table.LookupSymbol("TCS")
	require.True(t, ok)
	assert.Equal(t, "Tata Consultancy Services", entry.Name)

	entry, ok = table.LookupAlias("TATA CONSULTANCY")
	require.True(t, ok)
	assert.Equal(t, "TCS", entry.Symbol)
}

func TestLoadTableFileOrderPreserved(t *testing.T) {
	path := writeTable(t, `
version = "v1"

[[instruments]]
symbol = "BBB"
name = "Second Alphabetically"

[[instruments]]
symbol = "AAA"
name = "First Alphabetically"
`)

	table, err := LoadTableFile(path)
	require.NoError(t, err)
	assert.Equal(t, "BBB", table.Entry(0).Symbol, "file order is insertion order")
	assert.Equal(t, "AAA", table.Entry(1).Symbol)
}

func TestLoadTableFileMissingVersion(t *testing.T) {
	path := writeTable(t, `
[[instruments]]
symbol = "TCS"
name = "Tata Consultancy Services"
`)

	_, err := LoadTableFile(path)
	assert.Error(t, err)
}

func TestLoadTableFileMissing(t *testing.T) {
	_, err := LoadTableFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestDefaultTableVersioned(t *testing.T) {
	table := DefaultTable()
	assert.NotEmpty(t, table.Version())
	assert.Greater(t, table.Len(), 20)
}
