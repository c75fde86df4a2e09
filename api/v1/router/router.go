package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/GHutch55/anagrams/anagram"
	"github.com/GHutch55/anagrams/api/v1/handlers"
	"github.com/GHutch55/anagrams/api/v1/middleware"
	"github.com/GHutch55/anagrams/metrics"
)

// Options configures the router.
type Options struct {
	// AllowedOrigins lists CORS origins; "*" allows any origin.
	AllowedOrigins []string
	// RateLimit is the number of generate requests allowed per client IP per
	// minute. Zero disables limiting.
	RateLimit int
	// Metrics enables /metrics and request instrumentation when non-nil.
	Metrics *metrics.Metrics
	// Generator overrides the default anagram generator.
	Generator *anagram.Generator
	// TrustProxy takes the client address from True-Client-IP, X-Real-IP or
	// X-Forwarded-For. Only enable behind a proxy that overwrites them, since
	// rate limiting keys on that address.
	TrustProxy bool
}

// New builds the service router.
func New(opts Options) http.Handler {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	anagramHandler := handlers.NewAnagramHandler(opts.Generator, opts.Metrics)
	streamHandler := handlers.NewStreamHandler(anagramHandler, opts.AllowedOrigins, opts.RateLimit)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Instrument(opts.Metrics))
	r.Use(cors.Handler(corsOptions(opts.AllowedOrigins)))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.SendDetail(w, "Not Found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.SendDetail(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	r.Get("/", handlers.HomeHandler)
	r.Get("/health", handlers.HealthHandler)
	r.Get("/version", handlers.VersionHandler)

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(httprate.Limit(
				opts.RateLimit,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(handlers.TooManyRequests),
			))
		}

		r.Post("/generate-anagram", anagramHandler.GenerateAnagram)
		r.Method(http.MethodGet, "/ws/generate-anagram", streamHandler)
	})

	return r
}

func corsOptions(allowedOrigins []string) cors.Options {
	opts := cors.Options{
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Ratelimit-Limit", "X-Ratelimit-Remaining", "X-Ratelimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	// "*" echoes the request origin; browsers reject a literal "*" together
	// with credentials.
	if slices.Contains(allowedOrigins, "*") {
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return true }
	} else {
		opts.AllowedOrigins = allowedOrigins
	}

	return opts
}
