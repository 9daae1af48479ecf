package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/danielhkuo/green-pledges/cliparse"
	"github.com/danielhkuo/green-pledges/db"
	"github.com/danielhkuo/green-pledges/logging"
	"github.com/danielhkuo/green-pledges/middleware"
	"github.com/danielhkuo/green-pledges/router"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing flags:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Connect to the database
	dbConn, err := db.Open(context.Background(), cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.String("type", cfg.DatabaseType), zap.Error(err))
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		logger.Fatal("schema creation failed", zap.Error(err))
	}
	logger.Info("database schema ready", zap.String("type", cfg.DatabaseType))

	mux := router.NewRouter(dbConn, cfg, logger)

	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		server.Close()
	}()

	logger.Info("listening", zap.Int("port", cfg.Port))
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("server closed", zap.Error(err))
	} else {
		logger.Info("server closed")
	}
}
