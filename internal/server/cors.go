package server

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
)

const corsRequestHeadersHeader = "Access-Control-Request-Headers"

var corsOptions = []handlers.CORSOption{
	// Любой origin разрешён и отражается в ответе: "*" несовместим с credentials.
	handlers.AllowedOriginValidator(func(string) bool { return true }),
	handlers.AllowCredentials(),
	handlers.AllowedMethods([]string{
		http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}),
	handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-Requested-With", RequestIDHeader}),
	handlers.ExposedHeaders([]string{RequestIDHeader}),
}

// corsHandler разрешает любые origin, методы и заголовки.
// gorilla/handlers не знает wildcard для заголовков, поэтому на preflight
// запрошенные заголовки добавляются в список разрешённых.
func corsHandler(next http.Handler) http.Handler {
	base := handlers.CORS(corsOptions...)(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested := requestedHeaders(r)
		if r.Method != http.MethodOptions || len(requested) == 0 {
			base.ServeHTTP(w, r)
			return
		}

		opts := append(corsOptions[:len(corsOptions):len(corsOptions)], handlers.AllowedHeaders(requested))
		handlers.CORS(opts...)(next).ServeHTTP(w, r)
	})
}

func requestedHeaders(r *http.Request) []string {
	var out []string
	for _, v := range r.Header.Values(corsRequestHeadersHeader) {
		for _, h := range strings.Split(v, ",") {
			if h = strings.TrimSpace(h); h != "" {
				out = append(out, h)
			}
		}
	}
	return out
}
