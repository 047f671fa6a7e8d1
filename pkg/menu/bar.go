package menu

const (
	// MainTitle labels the fixed first group of the bar.
	MainTitle = "Main"

	// MainIcon is the icon hint of the main group.
	MainIcon = "fa-bars"

	// LinkIcon is the icon hint of every actionable link.
	LinkIcon = "fa-windows"

	// mainLinkLabel labels the single link of the main group.
	mainLinkLabel = "URL"
)

// Activation names what happens when a link is clicked.
type Activation string

const (
	// ActivateLogin opens the login prompt.
	ActivateLogin Activation = "login"
)

// Link is one clickable item of a group.
type Link struct {
	Label      string     `json:"label"`
	Icon       string     `json:"icon,omitempty"`
	ActionID   string     `json:"actionId,omitempty"`
	Activation Activation `json:"activation"`

	// Entry is the menu entry the link was built from, nil for the main link.
	Entry *Entry `json:"entry,omitempty"`
}

// Group is one dropdown of the bar.
type Group struct {
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`
	Links []Link `json:"links"`
}

// Bar is the navigable structure handed to a Renderer.
type Bar struct {
	Groups []Group `json:"groups"`
}

// Link returns the link at the given position.
func (b Bar) Link(group, link int) (Link, bool) {
	if group < 0 || group >= len(b.Groups) {
		return Link{}, false
	}
	links := b.Groups[group].Links
	if link < 0 || link >= len(links) {
		return Link{}, false
	}
	return links[link], true
}

// Clone returns a deep copy of b sharing no slices or entries with it.
func (b Bar) Clone() Bar {
	if b.Groups == nil {
		return Bar{}
	}
	out := Bar{Groups: make([]Group, len(b.Groups))}
	for i, g := range b.Groups {
		if g.Links != nil {
			links := make([]Link, len(g.Links))
			for j, l := range g.Links {
				links[j] = l.clone()
			}
			g.Links = links
		}
		out.Groups[i] = g
	}
	return out
}

func (l Link) clone() Link {
	if l.Entry == nil {
		return l
	}
	e := *l.Entry
	if e.Link != nil {
		rl := e.Link.Clone()
		e.Link = &rl
	}
	l.Entry = &e
	return l
}

// BuildMainEntry returns the fixed "Main" group with its single login link.
func BuildMainEntry() Group {
	return Group{
		Title: MainTitle,
		Icon:  MainIcon,
		Links: []Link{{
			Label:      mainLinkLabel,
			Icon:       LinkIcon,
			Activation: ActivateLogin,
		}},
	}
}

func buildMenuEntry(title string) Group {
	return Group{Title: title, Links: []Link{}}
}

func buildMenuAction(e Entry) Link {
	return Link{
		Label:      e.ActionID,
		Icon:       LinkIcon,
		ActionID:   e.ActionID,
		Activation: ActivateLogin,
		Entry:      &e,
	}
}

// BuildBar lays out m: the main group first, then one group per unique title
// holding one link per entry. Entries are not deduplicated.
func BuildBar(m *Menu) Bar {
	titles := m.UniqueTitles()

	bar := Bar{Groups: make([]Group, 0, len(titles)+1)}
	bar.Groups = append(bar.Groups, BuildMainEntry())

	for _, title := range titles {
		g := buildMenuEntry(title)
		for _, e := range m.FindEntriesByTitle(title) {
			g.Links = append(g.Links, buildMenuAction(e))
		}
		bar.Groups = append(bar.Groups, g)
	}

	return bar
}
