package menu

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
)

// Handler returns an HTTP handler that responds with the current bar as JSON.
func (p *Presenter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("handling bar request",
			"method", r.Method,
			"url", r.URL.Path,
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(p.Bar()); err != nil {
			slog.Error("failed to encode bar", "error", err)
			return
		}
	})
}

// ActivationHandler returns an HTTP handler clicking the link addressed by
// the {group} and {link} path values. It answers 204 on success and 404 when
// the link is not on the bar.
func (p *Presenter) ActivationHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		group, gErr := strconv.Atoi(r.PathValue("group"))
		link, lErr := strconv.Atoi(r.PathValue("link"))
		if gErr != nil || lErr != nil {
			http.Error(w, "group and link must be integers", http.StatusBadRequest)
			return
		}

		err := p.Activate(r.Context(), group, link)
		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, ErrNoSuchLink):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			slog.Error("activation failed", "group", group, "link", link, "error", err)
			http.Error(w, "activation failed, see logs for details", http.StatusInternalServerError)
		}
	})
}
