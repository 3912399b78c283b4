package server

import (
	_ "embed"
	"net/http"
)

var (
	//go:embed static/swagger.json
	swaggerSpec []byte

	//go:embed static/docs.html
	docsPage []byte
)

// serveDocsUI handles GET /docs/ with a Swagger UI page bound to /swagger.json.
func serveDocsUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(docsPage)
}

func serveSwaggerSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(swaggerSpec)
}
