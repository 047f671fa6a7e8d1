package menu

import (
	"encoding/json"
	"fmt"

	"github.com/mchmarny/romenu/pkg/restful"
)

// MenuBarsPath is the backend resource listing the menu bars.
const MenuBarsPath = "menuBars"

// Menu is the collection of entries the bar is built from.
type Menu struct {
	// Entries in discovery order.
	Entries []Entry `json:"entries,omitempty"`
}

// New returns a menu holding entries.
func New(entries ...Entry) *Menu {
	return &Menu{Entries: append([]Entry(nil), entries...)}
}

// Len returns the number of entries.
func (m *Menu) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Entries)
}

// UniqueTitles returns every distinct title in first-seen order.
func (m *Menu) UniqueTitles() []string {
	if m == nil {
		return []string{}
	}

	seen := make(map[string]struct{}, len(m.Entries))
	titles := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		if _, ok := seen[e.Title]; ok {
			continue
		}
		seen[e.Title] = struct{}{}
		titles = append(titles, e.Title)
	}

	return titles
}

// FindEntriesByTitle returns the entries whose title equals title, in model order.
func (m *Menu) FindEntriesByTitle(title string) []Entry {
	if m == nil {
		return []Entry{}
	}

	entries := make([]Entry, 0)
	for _, e := range m.Entries {
		if e.Title == title {
			entries = append(entries, e)
		}
	}

	return entries
}

type menuBars struct {
	Primary   *menuBar `json:"primary,omitempty"`
	Secondary *menuBar `json:"secondary,omitempty"`
	Tertiary  *menuBar `json:"tertiary,omitempty"`
}

type menuBar struct {
	Menu []struct {
		Named   string `json:"named"`
		Section []struct {
			ServiceAction []struct {
				ObjectType string        `json:"objectType,omitempty"`
				ID         string        `json:"id"`
				Named      string        `json:"named,omitempty"`
				Link       *restful.Link `json:"link,omitempty"`
			} `json:"serviceAction"`
		} `json:"section"`
	} `json:"menu"`
}

// ParseMenuBars builds a menu from a menuBars document. Each service action
// becomes an entry titled after the menu that holds it. Bars are read in
// primary, secondary, tertiary order; absent bars are skipped.
func ParseMenuBars(data []byte) (*Menu, error) {
	var doc menuBars
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse menu bars: %w", err)
	}

	m := &Menu{}
	for _, bar := range []*menuBar{doc.Primary, doc.Secondary, doc.Tertiary} {
		if bar == nil {
			continue
		}
		for _, mn := range bar.Menu {
			for _, sec := range mn.Section {
				for _, sa := range sec.ServiceAction {
					if sa.ID == "" {
						continue
					}
					m.Entries = append(m.Entries, Entry{
						Title:    mn.Named,
						ActionID: sa.ID,
						Link:     sa.Link,
					})
				}
			}
		}
	}

	return m, nil
}
