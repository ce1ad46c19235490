package web

import (
	"net/http"

	"github.com/daddykotex/pdf-edit-bulk/routing"
)

// NewRouter wires the routes. upload wraps the routes that receive files.
//
//	GET  /              upload form
//	POST /api/form      merge, returns the PDF
//	POST /api/preview   merge, returns the Summary
//	GET  /api/merges    recent journal entries
func NewRouter(h *Handlers, upload ...routing.HandlerWrapper) http.Handler {
	router := routing.NewBaseRouter()
	router.Group("/", func(root *routing.RouteGroup) {
		root.HandleFunc("GET /{$}", h.Form)
		root.Group("api/", func(api *routing.RouteGroup) {
			api.HandleFunc("POST form", h.Merge, upload...)
			api.HandleFunc("POST preview", h.Preview, upload...)
			api.HandleFunc("GET merges", h.Merges)
		})
	}, routing.ClientIP{TrustProxy: h.TrustProxyHeaders}, routing.AccessLog, routing.Recover)
	return router
}
