package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/officehours/internal/config"
	"github.com/Freeeeeet/officehours/internal/controller"
	"github.com/Freeeeeet/officehours/internal/controller/handlers"
	"github.com/Freeeeeet/officehours/internal/controller/httpapi"
	"github.com/Freeeeeet/officehours/internal/notify"
	"github.com/Freeeeeet/officehours/internal/repository"
	"github.com/Freeeeeet/officehours/internal/repository/memory"
	"github.com/Freeeeeet/officehours/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// App собирает хранилище, сервисы, уведомления и транспорты
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	pool  *pgxpool.Pool
	redis *redis.Client

	Instructors  *service.InstructorService
	Reservations *service.ReservationService
	Slots        *service.SlotService
	Queries      *service.QueryService
	Dispatcher   *notify.Dispatcher
	HTTP         *httpapi.Server
	Bot          *controller.BotController
}

// New создаёт приложение. Без DB_DSN используется хранилище в памяти
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	var (
		slotStore       service.SlotStore
		instructorStore service.InstructorStore
	)

	if cfg.UsesPostgres() {
		pool, err := OpenPool(ctx, cfg.GetDBDSN())
		if err != nil {
			return nil, err
		}
		a.pool = pool

		if migrate {
			if err := a.Migrate(ctx); err != nil {
				a.Close()
				return nil, err
			}
		}

		slotStore = repository.NewSlotRepository(pool)
		instructorStore = repository.NewInstructorRepository(pool)
	} else {
		logger.Warn("DB_DSN is empty, slots are kept in memory")
		slotStore = memory.NewSlotStore()
		instructorStore = memory.NewInstructorStore()
	}

	sinks := []notify.Sink{notify.NewLogSink(logger)}

	var telegram *bot.Bot
	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg.TelegramToken, bot.WithMiddlewares(handlers.LogUpdates(logger)))
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create telegram bot: %w", err)
		}
		telegram = b
		if cfg.TelegramNotifyChatID != 0 {
			sinks = append(sinks, notify.NewTelegramSink(b, cfg.TelegramNotifyChatID, cfg.Location()))
		}
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			client.Close()
			a.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		sinks = append(sinks, notify.NewRedisSink(client, cfg.RedisChannel))
	}

	a.Dispatcher = notify.NewDispatcher(cfg.NotifyBuffer, cfg.NotifyWorkers, logger, sinks...)

	retry := service.RetryPolicy{
		MaxRetries: uint64(cfg.ReserveMaxRetries),
		Delay:      service.DefaultRetryDelay,
	}

	a.Instructors = service.NewInstructorService(instructorStore, logger)
	a.Reservations = service.NewReservationService(slotStore, a.Dispatcher, retry, logger)
	a.Slots = service.NewSlotService(slotStore, instructorStore, a.Dispatcher, retry, logger)
	a.Queries = service.NewQueryService(slotStore, instructorStore, cfg.Location())

	a.HTTP = httpapi.NewServer(a.Reservations, a.Slots, a.Queries, a.Instructors, httpapi.Options{
		JWTSecret:      cfg.JWTSecret,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, logger)

	if telegram != nil {
		a.Bot = controller.NewBotController(telegram, a.Reservations, a.Queries, a.Instructors, logger)
	}

	return a, nil
}

// Migrate применяет миграции к PostgreSQL
func (a *App) Migrate(ctx context.Context) error {
	if a.pool == nil {
		return fmt.Errorf("migrations require DB_DSN")
	}

	migrator, err := NewMigrator(a.pool, a.logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Run(ctx)
}

// Run запускает HTTP и бота до отмены ctx. Диспетчер уведомлений останавливается
// только после них, чтобы события запросов, завершающихся при shutdown, тоже ушли
func (a *App) Run(ctx context.Context) error {
	a.Dispatcher.Start(context.WithoutCancel(ctx))
	defer a.Dispatcher.Stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.HTTP.Run(ctx, a.cfg.HTTPAddr)
	})

	if a.Bot != nil {
		if err := a.Bot.RegisterHandlers(ctx); err != nil {
			a.logger.Warn("Bot commands were not registered", zap.Error(err))
		}
		g.Go(func() error {
			return a.Bot.Start(ctx)
		})
	}

	return g.Wait()
}

// Close освобождает соединения
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
