package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tcs", "TCS"},
		{"  TCS  ", "TCS"},
		{"tata   consultancy\tservices", "TATA CONSULTANCY SERVICES"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSymbol(tt.in), "input %q", tt.in)
	}
}

func TestNewAliasTableLookups(t *testing.T) {
	table := NewAliasTable("v1", []AliasEntry{
		{Symbol: "TCS", Name: "Tata Consultancy Services", Aliases: []string{"tata consultancy"}},
		{Symbol: "INFY", Name: "Infosys"},
	})

	assert.Equal(t, "v1", table.Version())
	assert.Equal(t, 2, table.Len())

	entry, ok := table.LookupSymbol("TCS")
	require.True(t, ok)
	assert.Equal(t, "Tata Consultancy Services", entry.Name)

	entry, ok = table.LookupAlias("TATA CONSULTANCY")
	require.True(t, ok)
	assert.Equal(t, "TCS", entry.Symbol)

	// The company name counts as a variant.
	entry, ok = table.LookupAlias("INFOSYS")
	require.True(t, ok)
	assert.Equal(t, "INFY", entry.Symbol)

	_, ok = table.LookupSymbol("FOO")
	assert.False(t, ok)
}

func TestNewAliasTableDuplicateVariantFirstWins(t *testing.T) {
	table := NewAliasTable("v1", []AliasEntry{
		{Symbol: "AAA", Name: "Shared Name"},
		{Symbol: "BBB", Name: "Shared Name"},
	})

	entry, ok := table.LookupAlias("SHARED NAME")
	require.True(t, ok)
	assert.Equal(t, "AAA", entry.Symbol)
}

func TestCandidatesInsertionOrder(t *testing.T) {
	table := NewAliasTable("v1", []AliasEntry{
		{Symbol: "TCS", Name: "Tata Consultancy Services", Aliases: []string{"tcs ltd"}},
		{Symbol: "INFY", Name: "Infosys"},
	})

	var texts []string
	for _, c := range table.Candidates() {
		texts = append(texts, c.Text)
	}

	assert.Equal(t, []string{
		"TCS", "TATA CONSULTANCY SERVICES", "TCS LTD",
		"INFY", "INFOSYS",
	}, texts)
}

func TestCandidatesReferenceEntries(t *testing.T) {
	table := NewAliasTable("v1", []AliasEntry{
		{Symbol: "TCS", Name: "Tata Consultancy Services"},
		{Symbol: "INFY", Name: "Infosys"},
	})

	for _, c := range table.Candidates() {
		entry := table.Entry(c.Entry)
		assert.NotEmpty(t, entry.Symbol)
	}
}
