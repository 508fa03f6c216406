package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fabfab/documind/analysis"
	"github.com/fabfab/documind/api"
	"github.com/fabfab/documind/auth"
	"github.com/fabfab/documind/config"
	"github.com/fabfab/documind/database"
	"github.com/fabfab/documind/ingestion"
	"github.com/fabfab/documind/provider"
	"github.com/fabfab/documind/qa"
	"github.com/fabfab/documind/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Debug)

	switch os.Args[1] {
	case "serve":
		serveCmd(cfg, logger, os.Args[2:])
	case "ask":
		askCmd(cfg, logger, os.Args[2:])
	default:
		logger.Error().Str("command", os.Args[1]).Msg("unknown command")
		printUsage()
		os.Exit(1)
	}
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		Level(level).
		With().Timestamp().Logger()
}

func serveCmd(cfg config.Config, logger zerolog.Logger, args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := flags.String("addr", cfg.ListenAddr, "HTTP listen address")
	if err := flags.Parse(args); err != nil {
		logger.Fatal().Err(err).Msg("parse serve flags")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection")
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("ensure schema")
	}

	llm, err := provider.NewClient(cfg.Provider)
	if err != nil {
		logger.Fatal().Err(err).Msg("provider setup")
	}

	docs := store.NewPostgres(pool, logger)
	ingest := ingestion.NewService(docs, analysis.NewAnalyzer(llm), logger)
	answerer := qa.NewService(docs, llm, logger)
	authn := auth.NewPostgresAuthenticator(pool)

	server := &http.Server{
		Addr:    *addr,
		Handler: api.New(answerer, ingest, docs, authn, logger),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown")
		}
	}()

	logger.Info().Str("addr", *addr).Msg("serving HTTP API")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("serve failed")
	}
}

func askCmd(cfg config.Config, logger zerolog.Logger, args []string) {
	flags := flag.NewFlagSet("ask", flag.ExitOnError)
	question := flags.String("question", "", "question to ask")
	userFlag := flags.String("user", "", "user id owning the documents")
	docFlag := flags.String("document", "", "optional document id for single-document mode")
	if err := flags.Parse(args); err != nil {
		logger.Fatal().Err(err).Msg("parse ask flags")
	}

	if *question == "" || *userFlag == "" {
		logger.Fatal().Msg("both -question and -user are required")
	}

	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid user id")
	}

	var scope qa.Scope = qa.AllDocuments{}
	if *docFlag != "" {
		docID, parseErr := uuid.Parse(*docFlag)
		if parseErr != nil {
			logger.Fatal().Err(parseErr).Msg("invalid document id")
		}
		scope = qa.SingleDocument{DocumentID: docID}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection")
	}
	defer pool.Close()

	llm, err := provider.NewClient(cfg.Provider)
	if err != nil {
		logger.Fatal().Err(err).Msg("provider setup")
	}

	svc := qa.NewService(store.NewPostgres(pool, logger), llm, logger)

	resp, err := svc.Answer(ctx, qa.Request{
		UserID:   userID,
		Question: *question,
		Scope:    scope,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("answer failed")
	}

	fmt.Println(resp.Answer)
	if len(resp.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for idx, source := range resp.Sources {
			fmt.Printf("%d. %s (%s)\n", idx+1, source.Filename, source.ID)
		}
	}
}

func printUsage() {
	fmt.Println("Usage: documind <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  serve   Start the HTTP API")
	fmt.Println("  ask     Answer a question from the command line")
}
