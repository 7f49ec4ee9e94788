package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammall/hamra/backend/internal/analysis/faq"
	"github.com/hammall/hamra/backend/internal/config"
	"github.com/hammall/hamra/backend/internal/model/shop"
	"github.com/hammall/hamra/backend/internal/model/tenant"
	"github.com/hammall/hamra/backend/internal/repository/shops"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] no .env loaded, using system environment: %v", err)
	}

	message := flag.String("message", "", "tenant message to answer")
	tenantID := flag.Int64("tenant", 0, "tenant id whose shops are fetched from the configured source")
	name := flag.String("name", "", "tenant full name used in greetings")
	shopsPath := flag.String("shops", "", "JSON file with shops; overrides the configured source")
	timeout := flag.Duration("timeout", 15*time.Second, "shop lookup timeout")

	flag.Parse()

	if *message == "" {
		flag.Usage()
		log.Fatal("-message is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	snapshot, err := loadShops(ctx, cfg.Shops, *shopsPath, *tenantID)
	if err != nil {
		log.Fatalf("failed to load shops: %v", err)
	}

	var user *tenant.Profile
	if *tenantID > 0 || *name != "" {
		user = &tenant.Profile{ID: *tenantID, FullName: *name}
	}

	responder := faq.NewResponder(faq.WithLocation(cfg.Assistant.Location))
	reply, intent := responder.Answer(*message, snapshot, user)

	fmt.Printf("intent: %s\nshops:  %d\n\n%s\n", intent, len(snapshot), reply)
}

func loadShops(ctx context.Context, cfg config.ShopsConfig, path string, tenantID int64) ([]shop.Snapshot, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return shops.DecodeSnapshots(f)
	}

	if tenantID <= 0 {
		return nil, nil
	}

	src, closeSource, err := shops.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeSource()
	return src.TenantShops(ctx, tenantID)
}
