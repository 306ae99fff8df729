package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/valeriaulyamaeva/ledger-engine/internal/database"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
	"github.com/valeriaulyamaeva/ledger-engine/internal/routes"
)

// Раз в час перестраивается кеш KPI текущего месяца для всех активных
// пользователей: кеш производный, его всегда безопасно пересчитать.
func ScheduleKpiRebuild(engine *ledger.Engine, store *database.Store) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		ids, err := store.ActiveUserIDs(ctx)
		if err != nil {
			log.Printf("Ошибка получения пользователей для пересчёта KPI: %v", err)
			return
		}

		now := time.Now().UTC()
		for _, userID := range ids {
			if err := engine.RecalcMonthlyKPIs(ctx, userID, now.Year(), int(now.Month())); err != nil {
				log.Printf("Ошибка пересчёта KPI пользователя %d: %v", userID, err)
			}
		}
	})
	if err != nil {
		log.Fatalf("Ошибка настройки CRON-задачи для пересчёта KPI: %v", err)
	}
	c.Start()
	return c
}

// Ночная сверка: балансы каждого пользователя пересчитываются с нуля по
// истории транзакций, чтобы исправить возможный дрейф.
func ScheduleBalanceReconciliation(engine *ledger.Engine, store *database.Store) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		ids, err := store.ActiveUserIDs(ctx)
		if err != nil {
			log.Printf("Ошибка получения пользователей для сверки балансов: %v", err)
			return
		}

		for _, userID := range ids {
			if err := engine.RecalculateAllBalances(ctx, userID); err != nil {
				log.Printf("Ошибка сверки балансов пользователя %d: %v", userID, err)
			} else {
				log.Printf("Сверка балансов пользователя %d завершена успешно.", userID)
			}
		}
	})
	if err != nil {
		log.Fatalf("Ошибка настройки CRON-задачи для сверки балансов: %v", err)
	}
	c.Start()
	return c
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatalf("Ошибка загрузки .env файла: %v", err)
	}

	ctx := context.Background()

	pool, err := database.ConnectDB(ctx)
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Ошибка миграции схемы: %v", err)
	}

	store := database.NewStore(pool)
	engine := ledger.NewEngine(store)

	ScheduleKpiRebuild(engine, store)
	ScheduleBalanceReconciliation(engine, store)

	r := routes.SetupRouter(engine, store)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	log.Printf("Сервер запущен на %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
