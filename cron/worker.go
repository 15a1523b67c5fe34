package cron

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"brightpath/config"
	locationRepoPkg "brightpath/database/repository/location"
	recurrenceRepoPkg "brightpath/database/repository/recurrence"
	"brightpath/services/scheduling"
)

const TypeHorizonExtend = "horizon:extend"

// InitHorizonWorker runs the async worker in background. Each night it
// re-materializes every active weekly series so the rolling window always
// holds the next few months of occurrences.
func InitHorizonWorker(
	engine scheduling.RecurrenceEngine,
	rules recurrenceRepoPkg.RuleRepository,
	locations locationRepoPkg.LocationRepository,
) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeHorizonExtend, handleHorizonTask(engine, rules, locations))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Enqueue the nightly horizon task.
	go runHorizonScheduler(redisOpts)

	// Start async worker with retry logic
	go func() {
		log.Println("[HorizonWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[HorizonWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[HorizonWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func runHorizonScheduler(redisOpts asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register("@daily", asynq.NewTask(TypeHorizonExtend, nil)); err != nil {
		log.Printf("[HorizonWorker] ❌ Failed to register horizon schedule: %v", err)
		return
	}
	if err := scheduler.Run(); err != nil {
		log.Printf("[HorizonWorker] ❌ Scheduler stopped: %v", err)
	}
}

func handleHorizonTask(
	engine scheduling.RecurrenceEngine,
	rules recurrenceRepoPkg.RuleRepository,
	locations locationRepoPkg.LocationRepository,
) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		active, err := rules.ListActive(ctx)
		if err != nil {
			log.Printf("[HorizonHandler] 🔴 Failed to list active rules: %v", err)
			return err
		}

		extended := 0
		for _, rule := range active {
			loc, err := locations.GetByID(ctx, rule.LocationID)
			if err != nil || loc == nil {
				log.Printf("[HorizonHandler] ⚠️ Skipping rule %s: location %s unavailable: %v", rule.ID, rule.LocationID, err)
				continue
			}
			today, err := scheduling.TodayKey(loc.Timezone, time.Now())
			if err != nil {
				log.Printf("[HorizonHandler] ⚠️ Skipping rule %s: bad timezone %q: %v", rule.ID, loc.Timezone, err)
				continue
			}

			created, err := engine.Materialize(ctx, rule.ID, today)
			if err != nil {
				log.Printf("[HorizonHandler] ❌ Failed to materialize rule %s: %v", rule.ID, err)
				continue
			}
			extended += len(created)
		}

		log.Printf("[HorizonHandler] ⏰ Horizon sweep done: %d rules checked, %d occurrences added", len(active), extended)
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[HorizonWorker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
