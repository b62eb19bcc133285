package lookup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStatutes_Embedded(t *testing.T) {
	table, err := LoadStatutes("")
	require.NoError(t, err)
	assert.Greater(t, table.Len(), 0)

	s, ok := table.Section("302")
	require.True(t, ok)
	assert.Equal(t, "IPC_302", s.Section)
	assert.NotEmpty(t, s.Description)
}

func TestLoadStatutes_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"Section":" ipc_10 ","Description":"Man, woman."}]`), 0o644))

	table, err := LoadStatutes(path)
	require.NoError(t, err)

	s, ok := table.Section("10")
	require.True(t, ok)
	assert.Equal(t, "Man, woman.", s.Description)
}

func TestLoadStatutes_BadJSON(t *testing.T) {
	_, err := ParseStatutes([]byte(`{`))
	assert.Error(t, err)
}

func TestMatchQuery(t *testing.T) {
	table, err := ParseStatutes([]byte(`[
		{"Section":"IPC_302","Description":"murder"},
		{"Section":"IPC_498A","Description":"cruelty"},
		{"Section":"IPC_498","Description":"enticing"}
	]`))
	require.NoError(t, err)

	tests := []struct {
		query string
		want  string
		found bool
	}{
		{"what is IPC 302?", "murder", true},
		{"section 498A cruelty", "cruelty", true},
		{"section 498 enticing", "enticing", true},
		{"explain 999 and 302", "", false},
		{"what is bail", "", false},
	}
	for _, tt := range tests {
		s, ok := table.MatchQuery(tt.query)
		assert.Equal(t, tt.found, ok, tt.query)
		assert.Equal(t, tt.want, s.Description, tt.query)
	}
}

func TestMapToBNS(t *testing.T) {
	e, key, ok := MapToBNS("302")
	require.True(t, ok)
	assert.Equal(t, "302", key)
	assert.Equal(t, "101", e.BNS)
	assert.Equal(t, "Murder", e.Title)

	e, key, ok = MapToBNS("IPC Sec. 120-b")
	require.True(t, ok)
	assert.Equal(t, "120B", key)
	assert.Equal(t, "61", e.BNS)

	_, _, ok = MapToBNS("999")
	assert.False(t, ok)

	_, _, ok = MapToBNS("cheating")
	assert.False(t, ok)
}

func TestNormalizeSection(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"302", "302"},
		{"u/s 302", "302"},
		{"s.302", "302"},
		{"Section 302 of IPC", "302"},
		{"ipc sec. 498-a", "498A"},
		{"120B", "120B"},
		{"498 A", "498A"},
		{"no digits", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSection(tt.in))
		})
	}
}

func TestMapToBNS_LooseInput(t *testing.T) {
	e, key, ok := MapToBNS("u/s 302")
	require.True(t, ok)
	assert.Equal(t, "302", key)
	assert.Equal(t, "Murder", e.Title)

	_, key, ok = MapToBNS("s.302")
	require.True(t, ok)
	assert.Equal(t, "302", key)

	// A suffixed section is its own offence, never its bare number.
	_, key, ok = MapToBNS("376D")
	assert.False(t, ok)
	assert.Equal(t, "376D", key)
}

func TestFormatMapping(t *testing.T) {
	e, key, _ := MapToBNS("302")
	assert.Equal(t,
		"IPC 302 ➜ BNS 101\nOffence: Murder\nKey Change: Punishment remains similar; organized crime context added.",
		FormatMapping(key, e))
}
