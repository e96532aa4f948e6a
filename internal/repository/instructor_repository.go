package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/officehours/internal/model"
	"github.com/Freeeeeet/officehours/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InstructorRepository struct {
	*base.Repository
}

func NewInstructorRepository(pool *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{Repository: base.NewRepository(pool)}
}

// Upsert создаёт преподавателя или обновляет отображаемое имя
func (r *InstructorRepository) Upsert(ctx context.Context, instructor *model.Instructor) error {
	query := `
		INSERT INTO instructors (id, display_name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET display_name = EXCLUDED.display_name
		RETURNING created_at
	`

	err := r.QueryRow(ctx, query, instructor.ID, instructor.DisplayName).Scan(&instructor.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert instructor: %w", err)
	}

	return nil
}

// Get получает преподавателя по handle
func (r *InstructorRepository) Get(ctx context.Context, id string) (*model.Instructor, error) {
	query := `
		SELECT id, display_name, created_at
		FROM instructors
		WHERE id = $1
	`

	var instructor model.Instructor
	err := r.QueryRow(ctx, query, id).Scan(
		&instructor.ID,
		&instructor.DisplayName,
		&instructor.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get instructor: %w", err)
	}

	return &instructor, nil
}
