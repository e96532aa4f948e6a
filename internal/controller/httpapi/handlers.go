package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/officehours/internal/model"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type defineSlotRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

type toggleSlotRequest struct {
	Reserved *bool `json:"reserved" binding:"required"`
}

type registerInstructorRequest struct {
	DisplayName string `json:"display_name"`
}

// listSlots: ?date=YYYY-MM-DD слоты за день, ?from&to (RFC3339) диапазон, без параметров все
func (s *Server) listSlots(c *gin.Context) {
	instructorID := c.Param("instructor")

	var (
		slots []*model.Slot
		err   error
	)

	switch {
	case c.Query("date") != "":
		date, perr := time.ParseInLocation(dateLayout, c.Query("date"), s.queries.Location())
		if perr != nil {
			badRequest(c, "date must be YYYY-MM-DD")
			return
		}
		slots, err = s.queries.ListForDate(c.Request.Context(), instructorID, date)
	case c.Query("from") != "" || c.Query("to") != "":
		from, ferr := time.Parse(time.RFC3339, c.Query("from"))
		to, terr := time.Parse(time.RFC3339, c.Query("to"))
		if ferr != nil || terr != nil {
			badRequest(c, "from and to must be RFC3339 timestamps")
			return
		}
		slots, err = s.queries.ListRange(c.Request.Context(), instructorID, from, to)
	default:
		slots, err = s.queries.ListAll(c.Request.Context(), instructorID)
	}

	if err != nil {
		s.writeError(c, err)
		return
	}

	if slots == nil {
		slots = []*model.Slot{}
	}
	c.JSON(http.StatusOK, slots)
}

// listDays возвращает дни с приёмными часами в [from, to), даты в формате YYYY-MM-DD
func (s *Server) listDays(c *gin.Context) {
	loc := s.queries.Location()
	from, ferr := time.ParseInLocation(dateLayout, c.Query("from"), loc)
	to, terr := time.ParseInLocation(dateLayout, c.Query("to"), loc)
	if ferr != nil || terr != nil {
		badRequest(c, "from and to must be YYYY-MM-DD")
		return
	}

	days, err := s.queries.DaysWithSlots(c.Request.Context(), c.Param("instructor"), from, to)
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := make([]string, 0, len(days))
	for _, day := range days {
		out = append(out, day.Format(dateLayout))
	}
	c.JSON(http.StatusOK, gin.H{"days": out})
}

func (s *Server) registerInstructor(c *gin.Context) {
	instructorID := c.Param("instructor")
	identity := identityFrom(c)
	if identity == "" || identity != instructorID {
		s.writeError(c, model.ErrUnauthorized)
		return
	}

	var req registerInstructorRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	instructor, err := s.instructors.Register(c.Request.Context(), instructorID, req.DisplayName)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, instructor)
}

func (s *Server) defineSlot(c *gin.Context) {
	var req defineSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	slot, err := s.slots.Define(c.Request.Context(), identityFrom(c), c.Param("instructor"), req.Start, req.End)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

func (s *Server) deleteSlot(c *gin.Context) {
	force, _ := strconv.ParseBool(c.Query("force"))

	if err := s.slots.Delete(c.Request.Context(), identityFrom(c), c.Param("id"), force); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) reserveSlot(c *gin.Context) {
	slot, err := s.reservations.Reserve(c.Request.Context(), c.Param("id"), identityFrom(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (s *Server) releaseSlot(c *gin.Context) {
	slot, err := s.reservations.Release(c.Request.Context(), c.Param("id"), identityFrom(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// toggleSlot обрабатывает PATCH {reserved: bool}, как в старом интерфейсе office-hours-update
func (s *Server) toggleSlot(c *gin.Context) {
	var req toggleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	slot, err := s.reservations.Toggle(c.Request.Context(), c.Param("id"), identityFrom(c), *req.Reserved)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}
