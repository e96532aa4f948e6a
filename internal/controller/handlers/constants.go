package handlers

// Callback data: reserve:<slot_id>, release:<slot_id>
const (
	ReserveSlot = "reserve:"
	ReleaseSlot = "release:"
)

const dateLayout = "2006-01-02"
