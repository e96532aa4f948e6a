package model

import "time"

type SlotState string

const (
	SlotStateOpen     SlotState = "open"
	SlotStateReserved SlotState = "reserved"
)

// Slot представляет слот приёмных часов преподавателя
type Slot struct {
	ID           string    `json:"id"`
	InstructorID string    `json:"instructor_id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Reserved     bool      `json:"reserved"`
	ReservedBy   *string   `json:"reserved_by"` // nil пока слот свободен
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// State возвращает состояние слота
func (s *Slot) State() SlotState {
	if s.Reserved {
		return SlotStateReserved
	}
	return SlotStateOpen
}

// HeldBy проверяет, что слот занят именно identity
func (s *Slot) HeldBy(identity string) bool {
	return s.Reserved && s.ReservedBy != nil && *s.ReservedBy == identity
}

// Holder возвращает того, кто занял слот, или пустую строку
func (s *Slot) Holder() string {
	if s.ReservedBy == nil {
		return ""
	}
	return *s.ReservedBy
}

// Overlaps проверяет пересечение полуоткрытых интервалов [Start, End)
func (s *Slot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && start.Before(s.End)
}

// Clone возвращает независимую копию слота
func (s *Slot) Clone() *Slot {
	c := *s
	if s.ReservedBy != nil {
		by := *s.ReservedBy
		c.ReservedBy = &by
	}
	return &c
}

// SlotMutation описывает изменение, которое применяется через compare-and-swap
type SlotMutation struct {
	Reserved   bool
	ReservedBy *string
}

// ReserveFor создаёт мутацию бронирования
func ReserveFor(identity string) SlotMutation {
	return SlotMutation{Reserved: true, ReservedBy: &identity}
}

// Release создаёт мутацию освобождения слота
func Release() SlotMutation {
	return SlotMutation{}
}

// Valid проверяет что флаг и владелец согласованы
func (m SlotMutation) Valid() bool {
	return m.Reserved == (m.ReservedBy != nil && *m.ReservedBy != "")
}
