package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"invoice-portal/database"
	adminapi "invoice-portal/internal/api/admin"
	invoicesapi "invoice-portal/internal/api/invoices"
	plansapi "invoice-portal/internal/api/plans"
	stripewebhooks "invoice-portal/internal/api/stripewebhook"
	usersapi "invoice-portal/internal/api/users"
	routes "invoice-portal/internal/app/http"
	"invoice-portal/internal/app/http/middleware"
	"invoice-portal/internal/domain/invoicedoc"
	"invoice-portal/internal/infra/metrics"
	"invoice-portal/internal/infra/stripe"
	"invoice-portal/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if !skipMigrate {
				if err := database.Migrate(a.db); err != nil {
					return err
				}
			}
			return serve(ctx, a)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not run schema migrations on startup")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	cfg := a.cfg
	gin.SetMode(cfg.GinMode)
	metrics.MustRegister()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(a.log), middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	defaultLocale, ok := invoicedoc.Lookup(cfg.DefaultLocale)
	if !ok {
		a.log.Warn().Str("locale", cfg.DefaultLocale).Msg("unsupported default locale, using es")
		defaultLocale = invoicedoc.Spanish
	}

	users := store.NewUserStore(a.db)
	subs := store.NewSubscriptionStore(a.db)
	planStore := store.NewPlanStore(a.db)

	var prices plansapi.PriceLister
	if pc, err := stripe.NewPriceClient(cfg.Stripe.SecretKey); err == nil {
		prices = pc
	} else {
		a.log.Warn().Msg("STRIPE_SECRET_KEY not set, plan sync disabled")
	}

	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret: []byte(cfg.JWTSecret),
		Invoices:  invoicesapi.NewHandler(invoicesapi.NewService(a.invoices), defaultLocale),
		Users:     usersapi.NewHandler(users, subs),
		Plans:     plansapi.NewHandler(planStore, prices, cfg.Stripe.ProductID),
		Admin:     adminapi.NewHandler(a.invoices, users, subs, store.NewHealth(a.db)),
		Webhook:   stripewebhooks.NewHandler(cfg.Stripe.WebhookSecret, a.invoices, subs, planStore, users),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
