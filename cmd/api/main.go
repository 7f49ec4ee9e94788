package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammall/hamra/backend/internal/analysis/faq"
	"github.com/hammall/hamra/backend/internal/config"
	"github.com/hammall/hamra/backend/internal/handler"
	"github.com/hammall/hamra/backend/internal/handler/health"
	"github.com/hammall/hamra/backend/internal/repository/shops"
	"github.com/hammall/hamra/backend/internal/service/chat"
	"github.com/hammall/hamra/backend/internal/storage/history"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, err := openHistoryStore(ctx, cfg.History)
	if err != nil {
		log.Fatalf("failed to open history store: %v", err)
	}
	defer store.Close()

	shopSource, closeShops, err := shops.Open(ctx, cfg.Shops)
	if err != nil {
		log.Fatalf("failed to open shop source: %v", err)
	}
	defer closeShops()

	responder := faq.NewResponder(faq.WithLocation(cfg.Assistant.Location))
	chatService := chat.NewService(responder,
		chat.WithShopSource(shopSource),
		chat.WithHistory(chat.NewHistoryRepository(store)),
		chat.WithTypingDelay(cfg.Assistant.TypingDelay),
	)

	checks := map[string]health.Check{
		"history": store.Ping,
		"shops":   shopSource.Ping,
	}
	router := handler.NewRouter(chatService, checks, cfg.CORS.AllowedOrigins)

	startServer(ctx, cfg.Server, router)
}

func openHistoryStore(ctx context.Context, cfg config.HistoryConfig) (history.Store, error) {
	opts := []history.StoreOption{
		history.WithTTL(cfg.TTL),
		history.WithKeyPrefix(cfg.KeyPrefix),
	}

	storeType := history.StoreType(cfg.Driver)
	if storeType == history.StoreTypeRedis {
		client, err := history.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, history.WithRedisClient(client))
	}

	store, err := history.NewStore(storeType, opts...)
	if err != nil {
		return nil, err
	}
	log.Printf("[history] using %s driver (ttl=%s)", storeType, cfg.TTL)
	return store, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("HAMRA rent assistant listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
