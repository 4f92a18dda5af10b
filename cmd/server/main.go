package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acampoverde/fruitpack/internal/config"
	"github.com/acampoverde/fruitpack/internal/db"
	"github.com/acampoverde/fruitpack/internal/server"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fruitpack",
		Short: "fruitpack business management server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe()
		},
	}
	rootCmd.AddCommand(serveCommand(), migrateCommand(), seedCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe()
		},
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "run SQL migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()
			if err := db.RunSQLMigrations(db.GetNormalizedDSN()); err != nil {
				return err
			}
			log.Println("migrations completed")
			return nil
		},
	}
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "insert demo clients and materials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()
			conn, err := db.ConnectAndMigrate()
			if err != nil {
				return err
			}
			if err := db.Seed(conn); err != nil {
				return err
			}
			log.Println("seed completed")
			return nil
		},
	}
}

func runServe() error {
	_ = godotenv.Load()
	cfg := config.Load()
	conn, err := db.ConnectAndMigrate()
	if err != nil {
		return err
	}
	log.Printf("Starting server env=%s port=%s", cfg.Env, cfg.Port)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: server.New(conn)}
	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}
