// Package lookup holds the static legal tables: IPC section descriptions and
// the IPC to BNS cross-mapping.
package lookup

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

//go:embed data/ipc_sections.json
var embeddedStatutes []byte

// Statute is one row of the IPC dataset.
type Statute struct {
	Section     string `json:"Section"`
	Title       string `json:"section_title"`
	Description string `json:"Description"`
}

// StatuteTable is an immutable index of statutes keyed by "IPC_<section>".
type StatuteTable struct {
	bySection map[string]Statute
}

// LoadStatutes reads the dataset at path, or the embedded dataset when path
// is empty.
func LoadStatutes(path string) (*StatuteTable, error) {
	data := embeddedStatutes
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read statute data: %w", err)
		}
		data = b
	}
	return ParseStatutes(data)
}

// ParseStatutes builds a table from the JSON array form of the dataset.
func ParseStatutes(data []byte) (*StatuteTable, error) {
	var rows []Statute
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode statute data: %w", err)
	}
	t := &StatuteTable{bySection: make(map[string]Statute, len(rows))}
	for _, r := range rows {
		key := strings.ToUpper(strings.TrimSpace(r.Section))
		if key == "" {
			continue
		}
		t.bySection[key] = r
	}
	return t, nil
}

// Len returns the number of statutes loaded.
func (t *StatuteTable) Len() int {
	return len(t.bySection)
}

// Section returns the statute for a section number such as "302" or "498A".
func (t *StatuteTable) Section(number string) (Statute, bool) {
	s, ok := t.bySection["IPC_"+strings.ToUpper(strings.TrimSpace(number))]
	return s, ok
}

var sectionToken = regexp.MustCompile(`(\d+)([A-Za-z])?`)

// MatchQuery finds the statute referenced by the first number in a free-text
// query. A letter directly after the number is tried first, so "498A"
// resolves to IPC_498A before falling back to IPC_498.
func (t *StatuteTable) MatchQuery(query string) (Statute, bool) {
	m := sectionToken.FindStringSubmatch(query)
	if m == nil {
		return Statute{}, false
	}
	if m[2] != "" {
		if s, ok := t.Section(m[1] + m[2]); ok {
			return s, true
		}
	}
	return t.Section(m[1])
}
