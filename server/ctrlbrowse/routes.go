package ctrlbrowse

import (
	"net/http"
)

func AddRoutes(c *Controller, mux *http.ServeMux) {
	mux.Handle("GET /{$}", c.WithSession(c.H(c.ServeIndex)))
	mux.Handle("POST /play", c.WithSession(c.H(c.ServePlayDo)))
}
