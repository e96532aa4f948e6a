package handlers

import (
	"time"

	"github.com/Freeeeeet/officehours/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	reservations *service.ReservationService
	queries      *service.QueryService
	instructors  *service.InstructorService
	location     *time.Location
	now          func() time.Time
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	reservations *service.ReservationService,
	queries *service.QueryService,
	instructors *service.InstructorService,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		reservations: reservations,
		queries:      queries,
		instructors:  instructors,
		location:     queries.Location(),
		now:          time.Now,
		logger:       logger,
	}
}
