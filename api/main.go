package main

import (
	"context"
	"log"
	nethttp "net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/vending-fleet/internal/alert"
	"github.com/rogerio-castellano/vending-fleet/internal/auth"
	"github.com/rogerio-castellano/vending-fleet/internal/config"
	"github.com/rogerio-castellano/vending-fleet/internal/db"
	vhttp "github.com/rogerio-castellano/vending-fleet/internal/http"
	"github.com/rogerio-castellano/vending-fleet/internal/http/handlers"
	rl "github.com/rogerio-castellano/vending-fleet/internal/http/rate_limiter"
	"github.com/rogerio-castellano/vending-fleet/internal/redissvc"
	"github.com/rogerio-castellano/vending-fleet/internal/repo"
)

// @title Vending Fleet API
// @version 1.0
// @description REST API for purchases, restocking sessions, and fleet metrics.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	auth.SetSecret(cfg.JWTSecret)
	handlers.SetFrequencyCacheTTL(cfg.FrequencyCacheTTL)

	go auth.StartRefreshTokenCleaner(30 * time.Minute)
	go alert.StartDailyRestockSummary(time.Hour * 24)
	go rl.StartVisitorCleanupLoop()

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	defer rdb.Close()

	redisService := redissvc.NewRedisService(rdb, ctx)
	handlers.SetRedisService(redisService)
	alert.SetRedisService(redisService)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Could not connect to database:", err)
	}
	defer database.Close()

	handlers.SetProductRepo(repo.NewPostgresProductRepository(database))
	handlers.SetCustomerRepo(repo.NewPostgresCustomerRepository(database))
	handlers.SetMachineRepo(repo.NewPostgresMachineRepository(database))
	handlers.SetTransactionRepo(repo.NewPostgresTransactionRepository(database))
	handlers.SetUserRepo(repo.NewPostgresUserRepository(database))
	handlers.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))

	r := vhttp.NewRouter()
	log.Println("✅ Server running on", cfg.HTTPAddr)
	if err := nethttp.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}
