// Package httpapi отдаёт движок бронирования по HTTP для веб-интерфейса
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Freeeeeet/officehours/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	reservations *service.ReservationService
	slots        *service.SlotService
	queries      *service.QueryService
	instructors  *service.InstructorService
	jwtSecret    []byte
	limiter      *limiterStore
	logger       *zap.Logger
}

type Options struct {
	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewServer(
	reservations *service.ReservationService,
	slots *service.SlotService,
	queries *service.QueryService,
	instructors *service.InstructorService,
	opts Options,
	logger *zap.Logger,
) *Server {
	return &Server{
		reservations: reservations,
		slots:        slots,
		queries:      queries,
		instructors:  instructors,
		jwtSecret:    []byte(opts.JWTSecret),
		limiter:      newLimiterStore(opts.RateLimitRPS, opts.RateLimitBurst),
		logger:       logger,
	}
}

// Routes собирает gin-роутер
func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.identity())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	instructors := api.Group("/instructors/:instructor")
	instructors.GET("/slots", s.listSlots)
	instructors.GET("/days", s.listDays)
	instructors.PUT("", s.rateLimit(), s.registerInstructor)
	instructors.POST("/slots", s.rateLimit(), s.defineSlot)

	slots := api.Group("/slots/:id", s.rateLimit())
	slots.POST("/reserve", s.reserveSlot)
	slots.POST("/release", s.releaseSlot)
	slots.PATCH("", s.toggleSlot)
	slots.DELETE("", s.deleteSlot)

	return r
}

// Run слушает addr до отмены ctx и возвращается, когда запросы в работе завершены
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP shutdown failed", zap.Error(err))
		}
	}()

	s.logger.Info("HTTP server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-shutdownDone
	return nil
}
