package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/officehours/internal/model"
)

// DaySchedule форматирует список слотов преподавателя за день
func DaySchedule(instructor *model.Instructor, date time.Time, slots []*model.Slot, viewer string, loc *time.Location) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓 %s — %s\n\n", instructor.DisplayName, FormatDateWithWeekday(date.In(loc)))

	if len(slots) == 0 {
		sb.WriteString("На этот день приёмных часов нет.")
		return sb.String()
	}

	for _, slot := range slots {
		display := GetSlotStatusDisplay(slot.State())
		fmt.Fprintf(&sb, "%s %s", display.Emoji, FormatTimeRange(slot.Start.In(loc), slot.End.In(loc)))
		switch {
		case slot.HeldBy(viewer):
			sb.WriteString(" — ваша запись")
		case slot.Reserved:
			fmt.Fprintf(&sb, " — занято (%s)", slot.Holder())
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// EventText форматирует событие для чата курса
func EventText(event model.SlotEvent, loc *time.Location) string {
	when := fmt.Sprintf("%s %s", FormatDate(event.Start.In(loc)), FormatTimeRange(event.Start.In(loc), event.End.In(loc)))

	switch event.Kind {
	case model.SlotEventReserved:
		return fmt.Sprintf("🔴 %s записался к %s на %s", event.ReservedBy, event.InstructorID, when)
	case model.SlotEventReleased:
		return fmt.Sprintf("🟢 %s освободил слот %s у %s", event.PreviousHolder, when, event.InstructorID)
	case model.SlotEventDeleted:
		if event.PreviousHolder != "" {
			return fmt.Sprintf("⚫️ %s удалил слот %s. Запись %s отменена", event.InstructorID, when, event.PreviousHolder)
		}
		return fmt.Sprintf("⚫️ %s удалил слот %s", event.InstructorID, when)
	default:
		return fmt.Sprintf("Слот %s изменён", event.SlotID)
	}
}
