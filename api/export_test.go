package api

import "time"

func SetNow(a *API, now func() time.Time) {
	a.now = now
}
