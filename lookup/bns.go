package lookup

import (
	"fmt"
	"regexp"
	"strings"
)

// BNSEntry maps an IPC section to its Bharatiya Nyaya Sanhita successor.
type BNSEntry struct {
	BNS    string `json:"bns"`
	Title  string `json:"title"`
	Change string `json:"change"`
}

var bnsMapping = map[string]BNSEntry{
	"127":  {BNS: "155", Title: "Receiving property taken by war or depredation", Change: "Modernized language; integrated with new chapters on State property."},
	"302":  {BNS: "101", Title: "Murder", Change: "Punishment remains similar; organized crime context added."},
	"420":  {BNS: "318(4)", Title: "Cheating", Change: "Enhanced focus on digital/cyber cheating."},
	"376":  {BNS: "64", Title: "Rape", Change: "Stricter minimum sentences and community service options."},
	"307":  {BNS: "109", Title: "Attempt to Murder", Change: "Procedural changes in filing FIR."},
	"323":  {BNS: "115", Title: "Voluntarily Causing Hurt", Change: "Merged with community service provisions."},
	"506":  {BNS: "351", Title: "Criminal Intimidation", Change: "Higher fines for digital intimidation."},
	"120B": {BNS: "61", Title: "Criminal Conspiracy", Change: "Now a standalone chapter for organized crime."},
	"304A": {BNS: "106", Title: "Death by Negligence", Change: "Specifically addresses hit-and-run incidents."},
	"379":  {BNS: "303", Title: "Theft", Change: "Snatching is now a separate, more serious offence."},
	"498A": {BNS: "85", Title: "Cruelty by Husband/Relatives", Change: "Definitions aligned with modern marital laws."},
}

// sectionNumber finds the first section number and an optional one-letter
// suffix, e.g. "498-a" or "120B". A suffix followed by more letters is a word
// ("302 of IPC"), not a suffix.
var sectionNumber = regexp.MustCompile(`(\d+)(?:[\s\-]*([A-Z])(?:[^A-Z]|$))?`)

// NormalizeSection reduces user input like "ipc sec. 498-a" or "u/s 302" to
// "498A" or "302". It returns "" when the input has no digits.
func NormalizeSection(raw string) string {
	m := sectionNumber.FindStringSubmatch(strings.ToUpper(raw))
	if m == nil {
		return ""
	}
	return m[1] + m[2]
}

// MapToBNS looks up the BNS successor of an IPC section.
func MapToBNS(section string) (BNSEntry, string, bool) {
	key := NormalizeSection(section)
	e, ok := bnsMapping[key]
	return e, key, ok
}

// FormatMapping renders a mapping the way the legal-intelligence panel shows it.
func FormatMapping(section string, e BNSEntry) string {
	return fmt.Sprintf("IPC %s ➜ BNS %s\nOffence: %s\nKey Change: %s", section, e.BNS, e.Title, e.Change)
}
