package model

import "time"

type Instructor struct {
	ID          string    `json:"id"` // handle из адреса страницы /OfficeHours/<instructor>
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
