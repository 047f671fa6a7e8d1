package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mchmarny/romenu/pkg/metric"
)

// Activation counter label values.
const (
	GroupMain = "main"
	GroupMenu = "menu"
)

// ErrNoSuchLink is returned when an activation addresses a link that is not on the bar.
var ErrNoSuchLink = errors.New("no such link")

// Renderer maps a bar to concrete UI elements.
type Renderer interface {
	Render(Bar)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(Bar)

func (f RendererFunc) Render(b Bar) {
	f(b)
}

// Prompter opens the login prompt on behalf of an activated link.
type Prompter interface {
	PromptLogin(ctx context.Context, l Link) error
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, l Link) error

func (f PrompterFunc) PromptLogin(ctx context.Context, l Link) error {
	return f(ctx, l)
}

// Presenter owns the bar shown to the user and rebuilds it from a Menu.
// It is safe for concurrent use.
type Presenter struct {
	renderer Renderer
	prompter Prompter
	counter  metric.IncrementalCounter

	renderMu sync.Mutex // held from storing a bar until it is rendered

	mu   sync.RWMutex // protects bar and menu
	bar  Bar
	menu *Menu
}

// PresenterOption configures a Presenter.
type PresenterOption func(*Presenter)

// WithActivationCounter counts activations by group kind, main or menu.
func WithActivationCounter(c metric.IncrementalCounter) PresenterOption {
	return func(p *Presenter) { p.counter = c }
}

// NewPresenter returns a presenter showing only the main group. Either
// collaborator may be nil.
func NewPresenter(r Renderer, pr Prompter, opts ...PresenterOption) *Presenter {
	p := &Presenter{
		renderer: r,
		prompter: pr,
		bar:      Bar{Groups: []Group{BuildMainEntry()}},
	}

	for _, opt := range opts {
		opt(p)
	}

	p.render(p.bar.Clone())

	return p
}

// Amend replaces the bar with one built from m and renders it. A nil menu
// leaves only the main group. Overlapping calls render in the order they
// store, so the last bar rendered is the bar kept.
func (p *Presenter) Amend(m *Menu) {
	bar := BuildBar(m)

	p.renderMu.Lock()
	defer p.renderMu.Unlock()

	p.mu.Lock()
	p.bar = bar
	p.menu = m
	p.mu.Unlock()

	slog.Debug("menu bar amended", "groups", len(bar.Groups), "entries", m.Len())

	p.render(bar.Clone())
}

// Bar returns a copy of the bar currently shown.
func (p *Presenter) Bar() Bar {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bar.Clone()
}

// SetMenu records m without rebuilding the bar.
func (p *Presenter) SetMenu(m *Menu) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.menu = m
}

// Menu returns the last menu given to Amend or SetMenu, nil if none.
func (p *Presenter) Menu() *Menu {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.menu
}

// Activate clicks the link at the given position. Every activation currently
// opens the login prompt.
func (p *Presenter) Activate(ctx context.Context, group, link int) error {
	p.mu.RLock()
	l, ok := p.bar.Link(group, link)
	var title string
	if ok {
		title = p.bar.Groups[group].Title
		l = l.clone()
	}
	p.mu.RUnlock()

	if !ok {
		return fmt.Errorf("group %d link %d: %w", group, link, ErrNoSuchLink)
	}

	if p.counter != nil {
		p.counter.Increment(groupKind(group))
	}

	slog.Info("menu link activated",
		"group", title,
		"label", l.Label,
		"activation", string(l.Activation))

	switch l.Activation {
	case ActivateLogin:
		if p.prompter == nil {
			return nil
		}
		return p.prompter.PromptLogin(ctx, l)
	default:
		return fmt.Errorf("link %q: unknown activation %q", l.Label, l.Activation)
	}
}

// groupKind maps a group position to a bounded label: the main group or a
// backend menu.
func groupKind(group int) string {
	if group == 0 {
		return GroupMain
	}
	return GroupMenu
}

func (p *Presenter) render(b Bar) {
	if p.renderer != nil {
		p.renderer.Render(b)
	}
}
