package menu

import (
	"sort"
	"testing"
)

func salesModel() *Menu {
	return New(
		NewEntry("Sales", "CreateOrder"),
		NewEntry("Sales", "CancelOrder"),
		NewEntry("Reports", "Monthly"),
	)
}

func TestUniqueTitles(t *testing.T) {
	got := salesModel().UniqueTitles()
	if len(got) != 2 || got[0] != "Sales" || got[1] != "Reports" {
		t.Fatalf("expected [Sales Reports], got %v", got)
	}
}

func TestFindEntriesByTitle(t *testing.T) {
	m := salesModel()

	sales := m.FindEntriesByTitle("Sales")
	ids := make([]string, 0, len(sales))
	for _, e := range sales {
		if e.Title != "Sales" {
			t.Fatalf("unexpected title %q", e.Title)
		}
		ids = append(ids, e.ActionID)
	}
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "CancelOrder" || ids[1] != "CreateOrder" {
		t.Fatalf("expected the two sales entries, got %v", ids)
	}

	if got := m.FindEntriesByTitle("Missing"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestEntriesPartitionByTitle(t *testing.T) {
	models := []*Menu{
		New(),
		salesModel(),
		New(NewEntry("A", "x"), NewEntry("B", "y"), NewEntry("A", "x"), NewEntry("", "z"), NewEntry("B", "w")),
	}

	for i, m := range models {
		seen := 0
		for _, title := range m.UniqueTitles() {
			for _, e := range m.FindEntriesByTitle(title) {
				if e.Title != title {
					t.Fatalf("model %d: entry %v returned for title %q", i, e, title)
				}
				seen++
			}
		}
		if seen != m.Len() {
			t.Fatalf("model %d: expected %d entries across titles, got %d", i, m.Len(), seen)
		}
	}
}

func TestNilMenu(t *testing.T) {
	var m *Menu
	if m.Len() != 0 || len(m.UniqueTitles()) != 0 || len(m.FindEntriesByTitle("x")) != 0 {
		t.Fatalf("expected nil menu to behave as empty")
	}
}

func TestNewCopiesEntries(t *testing.T) {
	entries := []Entry{NewEntry("Sales", "CreateOrder")}
	m := New(entries...)
	entries[0].Title = "Changed"
	if m.Entries[0].Title != "Sales" {
		t.Fatalf("expected menu to own its entries")
	}
}

const sampleMenuBars = `{
  "primary": {
    "menu": [
      {"named": "Simple Objects", "section": [
        {"serviceAction": [
          {"objectType": "simple.SimpleObjects", "id": "create", "named": "Create",
           "link": {"rel": "urn:org.restfulobjects:rels/action", "method": "GET",
                    "href": "http://localhost:8080/restful/objects/simple.SimpleObjects/1/actions/create"}},
          {"objectType": "simple.SimpleObjects", "id": "listAll", "named": "List All"}
        ]}
      ]}
    ]
  },
  "secondary": {
    "menu": [
      {"named": "Prototyping", "section": [
        {"serviceAction": [{"id": "runFixtureScript"}, {"id": ""}]},
        {"serviceAction": [{"id": "openRestApi"}]}
      ]}
    ]
  }
}`

func TestParseMenuBars(t *testing.T) {
	m, err := ParseMenuBars([]byte(sampleMenuBars))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d: %v", m.Len(), m.Entries)
	}

	titles := m.UniqueTitles()
	if len(titles) != 2 || titles[0] != "Simple Objects" || titles[1] != "Prototyping" {
		t.Fatalf("unexpected titles %v", titles)
	}

	first := m.Entries[0]
	if first.ActionID != "create" || first.Link == nil || first.Link.Method != "GET" {
		t.Fatalf("unexpected first entry %+v", first)
	}
	if m.Entries[1].Link != nil {
		t.Fatalf("expected entry without link to keep a nil link")
	}

	proto := m.FindEntriesByTitle("Prototyping")
	if len(proto) != 2 || proto[0].ActionID != "runFixtureScript" || proto[1].ActionID != "openRestApi" {
		t.Fatalf("unexpected prototyping entries %v", proto)
	}
}

func TestParseMenuBarsEmptyAndMalformed(t *testing.T) {
	m, err := ParseMenuBars([]byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty menu, got %v", m.Entries)
	}

	if _, err := ParseMenuBars([]byte(`{"primary":`)); err == nil {
		t.Fatalf("expected error for malformed document")
	}
}
