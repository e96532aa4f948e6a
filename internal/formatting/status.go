package formatting

import "github.com/Freeeeeet/officehours/internal/model"

// SlotStatusDisplay представляет отображение статуса слота
type SlotStatusDisplay struct {
	Emoji string
	Text  string
}

// GetSlotStatusDisplay возвращает emoji и текст для состояния слота
func GetSlotStatusDisplay(state model.SlotState) SlotStatusDisplay {
	displays := map[model.SlotState]SlotStatusDisplay{
		model.SlotStateOpen:     {"🟢", "Свободен"},
		model.SlotStateReserved: {"🔴", "Занят"},
	}

	if display, ok := displays[state]; ok {
		return display
	}

	return SlotStatusDisplay{"❓", "Неизвестно"}
}
