package model

import "time"

type SlotEventKind string

const (
	SlotEventReserved SlotEventKind = "reserved"
	SlotEventReleased SlotEventKind = "released"
	SlotEventDeleted  SlotEventKind = "deleted"
)

// SlotEvent представляет уведомление об успешном изменении слота
type SlotEvent struct {
	SlotID         string        `json:"slot_id"`
	InstructorID   string        `json:"instructor_id"`
	Kind           SlotEventKind `json:"kind"`
	State          SlotState     `json:"state"`
	ReservedBy     string        `json:"reserved_by,omitempty"`
	PreviousHolder string        `json:"previous_holder,omitempty"` // заполняется при освобождении и удалении
	Version        int64         `json:"version"`
	Start          time.Time     `json:"start"`
	End            time.Time     `json:"end"`
	At             time.Time     `json:"at"`
}

// NewSlotEvent собирает событие из нового состояния слота
func NewSlotEvent(kind SlotEventKind, slot *Slot, previousHolder string) SlotEvent {
	return SlotEvent{
		SlotID:         slot.ID,
		InstructorID:   slot.InstructorID,
		Kind:           kind,
		State:          slot.State(),
		ReservedBy:     slot.Holder(),
		PreviousHolder: previousHolder,
		Version:        slot.Version,
		Start:          slot.Start,
		End:            slot.End,
		At:             time.Now(),
	}
}
