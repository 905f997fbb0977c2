package handlers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/vending-fleet/internal/redissvc"
	repo "github.com/rogerio-castellano/vending-fleet/internal/repo"
	"github.com/rogerio-castellano/vending-fleet/internal/vending"
)

var (
	machineRepo     repo.MachineRepository
	customerRepo    repo.CustomerRepository
	productRepo     repo.ProductRepository
	transactionRepo repo.TransactionRepository
	userRepo        repo.UserRepository
	metricsRepo     repo.MetricsRepository

	purchaseSvc *vending.PurchaseService
	sessionMgr  *vending.SessionManager

	Rdb *redis.Client
	Ctx context.Context

	frequencyCacheTTL = 30 * time.Second
)

func SetMachineRepo(r repo.MachineRepository) {
	machineRepo = r
	wireServices()
}

func SetCustomerRepo(r repo.CustomerRepository) {
	customerRepo = r
	wireServices()
}

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetTransactionRepo(r repo.TransactionRepository) {
	transactionRepo = r
	wireServices()
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetRedisService(rs *redissvc.RedisService) {
	Rdb = rs.Rdb()
	Ctx = rs.Ctx()
}

func SetFrequencyCacheTTL(ttl time.Duration) {
	frequencyCacheTTL = ttl
}

func wireServices() {
	if machineRepo != nil {
		sessionMgr = vending.NewSessionManager(machineRepo)
	}
	if machineRepo != nil && customerRepo != nil && transactionRepo != nil {
		purchaseSvc = vending.NewPurchaseService(machineRepo, customerRepo, transactionRepo)
	}
}
