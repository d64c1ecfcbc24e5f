package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/usecase"
)

// Server exposes the canonical gateway API, the webhook confirmation
// endpoint and the admin surface over one chi router.
type Server struct {
	bankUC    usecase.BankUseCase
	payUC     usecase.PaymentUseCase
	webhookUC usecase.WebhookUseCase
	refresher CacheRefresher
	auth      *AuthManager
	log       *zerolog.Logger
}

func NewServer(
	bankUC usecase.BankUseCase,
	payUC usecase.PaymentUseCase,
	webhookUC usecase.WebhookUseCase,
	refresher CacheRefresher,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		bankUC:    bankUC,
		payUC:     payUC,
		webhookUC: webhookUC,
		refresher: refresher,
		auth:      auth,
		log:       &l,
	}
}

// Router builds the route tree. All business routes share the trace /
// logging / recovery chain; webhook confirmation gets no timeout shorter
// than the global one because its reply is always 200.
func (s *Server) Router(requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	wrap := func(h http.Handler) http.Handler {
		return Chain(h, Recover(s.log), TraceID(s.log), RequestLog(s.log), Timeout(requestTimeout))
	}

	r.Method(http.MethodGet, "/api/v1/providers/{code}/banks", wrap(banksHandler(s.bankUC)))
	r.Method(http.MethodPost, "/api/v1/payments", wrap(paymentsHandler(s.payUC)))
	r.Method(http.MethodGet, "/api/v1/payments/status", wrap(paymentStatusHandler(s.payUC)))
	r.Method(http.MethodPost, "/api/v1/merchant-events", wrap(merchantEventsHandler(s.payUC)))
	r.Method(http.MethodPost, "/api/v1/webhooks/confirmation", wrap(webhookConfirmationHandler(s.webhookUC)))

	r.Method(http.MethodPost, "/admin/v1/caches/refresh", wrap(s.auth.Guard(cachesRefreshHandler(s.refresher))))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// Run serves until ctx is cancelled, then drains with a short grace period.
func (s *Server) Run(ctx context.Context, addr string, requestTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(requestTimeout),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
