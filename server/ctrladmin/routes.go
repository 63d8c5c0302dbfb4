package ctrladmin

import (
	"net/http"
)

func AddRoutes(c *Controller, mux *http.ServeMux) {
	mux.Handle("GET /admin", c.WithSession(c.H(c.ServeAdmin)))
	mux.Handle("POST /admin/{kind}", c.WithSession(c.H(c.ServeSubmitDo)))
}
