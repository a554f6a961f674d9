package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/config"
	"storefront/internal/api"
	"storefront/internal/backend"
	"storefront/internal/i18n"
	"storefront/internal/service"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var portOverride string

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Shopping list storefront backend",
	Long: `storefront serves the catalog and order screens of the shopping list.

It loads product categories from the product API, keeps the cart and order
form for the session, and submits confirmed orders to the order API.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Fetch and print the product categories",
	RunE:  runCategories,
}

func init() {
	serveCmd.Flags().StringVarP(&portOverride, "port", "p", "", "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd, categoriesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if portOverride != "" {
		cfg.Server.Port = portOverride
	}

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront")

	endpoint := ""
	if cfg.Observ.TracingEnabled {
		endpoint = cfg.Observ.JaegerEndpoint
	}
	tp, err := util.InitTracer(endpoint)
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	resolver, err := i18n.Load(cfg.Locale.Default, cfg.Locale.Fallback)
	if err != nil {
		return fmt.Errorf("failed to load locales: %w", err)
	}

	client := backend.NewClient(cfg.Backend.ProductAPIURL, cfg.Backend.OrderAPIURL, cfg.Backend.Timeout)
	st := store.NewStore()
	storefront := service.NewStorefront(st,
		service.NewCatalogLoader(client, st),
		service.NewOrderSubmitter(client),
		cfg.Business.MaxProductQuantity)

	if err := storefront.LoadCatalog(cmd.Context()); err != nil {
		logger.Warn("Starting without categories", zap.Error(err))
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(storefront, resolver)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	storefront.Close()

	log.Println("Server exited")
	return nil
}

func runCategories(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer util.SyncLogger()

	client := backend.NewClient(cfg.Backend.ProductAPIURL, cfg.Backend.OrderAPIURL, cfg.Backend.Timeout)
	categories, err := client.FetchCategories(cmd.Context())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(categories)
}
