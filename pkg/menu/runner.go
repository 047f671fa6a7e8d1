package menu

import (
	"context"

	"github.com/mchmarny/romenu/pkg/server"
)

const (
	// BarPattern serves the current bar.
	BarPattern = "GET /{$}"

	// ActivationPattern activates one link of the bar.
	ActivationPattern = "POST /groups/{group}/links/{link}"
)

// Routes returns the server options registering the presenter handlers.
func (p *Presenter) Routes() []server.Option {
	return []server.Option{
		server.WithHandler(BarPattern, p.Handler()),
		server.WithHandler(ActivationPattern, p.ActivationHandler()),
	}
}

// Run serves the bar and blocks until the context is canceled or an error occurs.
func (p *Presenter) Run(ctx context.Context, opt ...server.Option) error {
	opt = append(opt, p.Routes()...)
	return server.New(opt...).Serve(ctx)
}
