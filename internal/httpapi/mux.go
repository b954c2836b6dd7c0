package httpapi

import "net/http"

// NewMux returns the bare router. Feature packages register their routes on
// it before the server starts.
func NewMux() *http.ServeMux {
	return http.NewServeMux()
}
