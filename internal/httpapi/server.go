// Package httpapi serves the storefront's cart, account and checkout calls
// over JSON. Each browser session, identified by a cookie, gets its own
// identity session and cart synchronizer.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/nikolayk812/cartsync/internal/checkout"
	"github.com/nikolayk812/cartsync/internal/port"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const SessionCookie = "cartsync_session"

type ctxKey struct{}

type Server struct {
	registry      *Registry
	checkout      *checkout.Service
	products      port.ProductRepository
	gatherer      prometheus.Gatherer
	log           zerolog.Logger
	secureCookies bool
	corsOrigins   []string
	authRateLimit int
}

type Option func(*Server)

// WithGatherer exposes the given registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

func WithSecureCookies(v bool) Option {
	return func(s *Server) {
		s.secureCookies = v
	}
}

// WithCORS allows the given storefront origins to call the API with the
// session cookie.
func WithCORS(origins []string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithAuthRateLimit caps /auth requests per client IP per minute.
func WithAuthRateLimit(perMinute int) Option {
	return func(s *Server) {
		s.authRateLimit = perMinute
	}
}

// NewServer serves carts from registry. Cart lines are priced from products.
func NewServer(registry *Registry, checkoutSvc *checkout.Service, products port.ProductRepository, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{registry: registry, checkout: checkoutSvc, products: products, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	if len(s.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Get("/payment/methods", s.paymentMethods)

	r.Get("/products", s.listProducts)
	r.Get("/products/{productID}", s.getProduct)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.session)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.getCart)
			r.Delete("/", s.clearCart)
			r.Post("/items", s.addItem)
			r.Patch("/items/{productID}", s.updateQuantity)
			r.Delete("/items/{productID}", s.removeItem)
		})

		r.Route("/auth", func(r chi.Router) {
			if s.authRateLimit > 0 {
				r.Use(httprate.LimitByIP(s.authRateLimit, time.Minute))
			}
			r.Post("/signin", s.signIn)
			r.Post("/signup", s.signUp)
			r.Post("/signout", s.signOut)
			r.Get("/me", s.me)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", s.listOrders)
			r.Get("/{orderID}", s.getOrder)
			r.Patch("/{orderID}/status", s.updateOrderStatus)
		})
		r.Post("/checkout", s.placeOrder)
	})

	return r
}

// session loads the client named by the session cookie, issuing a new
// cookie when there is none.
func (s *Server) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.secureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}

		client, err := s.registry.Get(r.Context(), id)
		if err != nil {
			s.log.Error().Err(err).Str("session", id).Msg("load session failed")
			respondError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, client)))
	})
}

func clientFrom(r *http.Request) *Client {
	c, _ := r.Context().Value(ctxKey{}).(*Client)
	return c
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
