package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humagin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/udhaar-ledger/internal/handlers/v1/customer"
	"github.com/carson-networks/udhaar-ledger/internal/handlers/v1/profile"
	"github.com/carson-networks/udhaar-ledger/internal/handlers/v1/report"
	"github.com/carson-networks/udhaar-ledger/internal/handlers/v1/snapshot"
	"github.com/carson-networks/udhaar-ledger/internal/handlers/v1/status"
	"github.com/carson-networks/udhaar-ledger/internal/handlers/v1/transaction"
	"github.com/carson-networks/udhaar-ledger/internal/logging"
	"github.com/carson-networks/udhaar-ledger/internal/service"
	"github.com/carson-networks/udhaar-ledger/internal/storage"
)

type Rest struct {
	Logger         *logrus.Logger
	Port           string
	AllowedOrigins []string
	OverdueAfter   time.Duration
	Storage        *storage.Storage
	Service        *service.Service

	mu     sync.Mutex
	server *http.Server
}

// Handler builds the gin engine with every route registered.
func (r *Rest) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(r.corsConfig()))

	statusHandler := status.NewHandler(r.Storage)
	engine.GET("/status", gin.WrapF(logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler)))

	api := humagin.New(engine, huma.DefaultConfig("Udhaar Ledger API", "1.0.0"))
	api.UseMiddleware(logging.HumaMiddleware(r.Logger))

	svc := r.Service
	customer.NewCreateCustomerHandler(svc.Customers).Register(api)
	customer.NewListCustomersHandler(svc.Customers).Register(api)
	customer.NewGetCustomerHandler(svc.Customers).Register(api)
	customer.NewEditCustomerHandler(svc.Customers).Register(api)
	transaction.NewCreateTransactionHandler(svc.Transactions).Register(api)
	transaction.NewEditTransactionHandler(svc.Transactions).Register(api)
	transaction.NewListTransactionsHandler(svc.Transactions).Register(api)
	profile.NewHandler(svc.Profile).Register(api)
	snapshot.NewHandler(svc.Snapshots).Register(api)
	report.NewHandler(svc.Customers, svc.Transactions, r.OverdueAfter).Register(api)

	return engine
}

func (r *Rest) corsConfig() cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(r.AllowedOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = r.AllowedOrigins
		config.AllowCredentials = true
	}
	return config
}

// Serve blocks until the server stops.
func (r *Rest) Serve() {
	server := &http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}
	r.mu.Lock()
	r.server = server
	r.mu.Unlock()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (r *Rest) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	server := r.server
	r.mu.Unlock()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
