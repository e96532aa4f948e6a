package model

import "errors"

// Ошибки движка бронирования
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("slot overlaps an existing slot")
	ErrVersionConflict   = errors.New("slot version conflict")
	ErrContention        = errors.New("slot is contended, try again")
	ErrAlreadyReserved   = errors.New("slot is already reserved")
	ErrInvalidTransition = errors.New("invalid slot transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidSlot       = errors.New("slot start must be before end")
	ErrInvalidRange      = errors.New("range start must be before end")
	ErrSlotReserved      = errors.New("slot is reserved by a student")
	ErrInvalidInstructor = errors.New("invalid instructor handle")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "❌ Не найдено"
	case errors.Is(err, ErrConflict):
		return "❌ Слот пересекается с уже существующим"
	case errors.Is(err, ErrContention):
		return "⏳ Слот сейчас бронируют другие. Попробуйте ещё раз"
	case errors.Is(err, ErrAlreadyReserved):
		return "❌ Слот уже забронирован"
	case errors.Is(err, ErrInvalidTransition):
		return "❌ Этот слот нельзя освободить: он не ваш или уже свободен"
	case errors.Is(err, ErrUnauthorized):
		return "❌ Нужно войти в систему"
	case errors.Is(err, ErrInvalidSlot):
		return "❌ Начало слота должно быть раньше конца"
	case errors.Is(err, ErrInvalidRange):
		return "❌ Неверный диапазон дат"
	case errors.Is(err, ErrSlotReserved):
		return "❌ Слот забронирован студентом"
	case errors.Is(err, ErrInvalidInstructor):
		return "❌ Неверное имя преподавателя"
	default:
		return "❌ Произошла ошибка"
	}
}
