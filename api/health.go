package api

import "net/http"

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	if err := a.db.PingContext(r.Context()); err != nil {
		a.logger.Error("health check", "error", err)
		a.Response(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	a.Response(w, http.StatusOK, "OK")
}
