package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/officehours/internal/model"
	"github.com/Freeeeeet/officehours/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const slotColumns = `id, instructor_id, start_time, end_time, reserved, reserved_by, version, created_at, updated_at`

type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт слот. Пересечения проверяются под advisory lock преподавателя,
// так что параллельные определения слотов одного преподавателя сериализуются
func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}

	return r.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, slot.InstructorID); err != nil {
			return fmt.Errorf("lock instructor slots: %w", err)
		}

		var overlaps bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM office_hour_slots
				WHERE instructor_id = $1
				  AND start_time < $3
				  AND end_time > $2
			)
		`, slot.InstructorID, slot.Start, slot.End).Scan(&overlaps)
		if err != nil {
			return fmt.Errorf("check slot overlap: %w", err)
		}
		if overlaps {
			return model.ErrConflict
		}

		query := `
			INSERT INTO office_hour_slots (id, instructor_id, start_time, end_time, reserved, reserved_by, version)
			VALUES ($1, $2, $3, $4, FALSE, NULL, 0)
			RETURNING version, created_at, updated_at
		`
		err = tx.QueryRow(ctx, query, slot.ID, slot.InstructorID, slot.Start, slot.End).
			Scan(&slot.Version, &slot.CreatedAt, &slot.UpdatedAt)
		if err != nil {
			return fmt.Errorf("create slot: %w", err)
		}

		slot.Reserved = false
		slot.ReservedBy = nil
		return nil
	})
}

// Get получает слот по ID
func (r *SlotRepository) Get(ctx context.Context, id string) (*model.Slot, error) {
	if !validSlotID(id) {
		return nil, model.ErrNotFound
	}

	query := `SELECT ` + slotColumns + ` FROM office_hour_slots WHERE id = $1`

	slot, err := scanSlot(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// CompareAndSwap выполняет условный UPDATE по версии. Ноль строк означает, что слот удалён или версия устарела
func (r *SlotRepository) CompareAndSwap(ctx context.Context, id string, expectedVersion int64, m model.SlotMutation) (*model.Slot, error) {
	if !m.Valid() {
		return nil, model.ErrInvalidTransition
	}
	if !validSlotID(id) {
		return nil, model.ErrNotFound
	}

	query := `
		UPDATE office_hour_slots
		SET reserved = $3, reserved_by = $4, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING ` + slotColumns

	slot, err := scanSlot(r.QueryRow(ctx, query, id, expectedVersion, m.Reserved, m.ReservedBy))
	if err == nil {
		return slot, nil
	}
	if !base.IsNotFound(err) {
		return nil, fmt.Errorf("compare and swap slot: %w", err)
	}

	exists, err := r.exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrNotFound
	}
	return nil, model.ErrVersionConflict
}

// Delete удаляет слот, если версия не изменилась
func (r *SlotRepository) Delete(ctx context.Context, id string, expectedVersion int64) error {
	if !validSlotID(id) {
		return model.ErrNotFound
	}

	affected, err := r.ExecAffected(ctx, `DELETE FROM office_hour_slots WHERE id = $1 AND version = $2`, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if affected > 0 {
		return nil
	}

	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrNotFound
	}
	return model.ErrVersionConflict
}

// ListByInstructorAndRange получает слоты преподавателя со start_time в [from, to)
func (r *SlotRepository) ListByInstructorAndRange(ctx context.Context, instructorID string, from, to time.Time) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM office_hour_slots
		WHERE instructor_id = $1
		  AND start_time >= $2
		  AND start_time < $3
		ORDER BY start_time
	`
	return r.list(ctx, query, instructorID, from, to)
}

// ListByInstructor получает все слоты преподавателя
func (r *SlotRepository) ListByInstructor(ctx context.Context, instructorID string) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM office_hour_slots
		WHERE instructor_id = $1
		ORDER BY start_time
	`
	return r.list(ctx, query, instructorID)
}

func (r *SlotRepository) list(ctx context.Context, query string, args ...any) ([]*model.Slot, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}

func (r *SlotRepository) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM office_hour_slots WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slot exists: %w", err)
	}
	return exists, nil
}

// validSlotID отсекает строки, которые Postgres не примет как UUID
func validSlotID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func scanSlot(row pgx.Row) (*model.Slot, error) {
	var slot model.Slot
	err := row.Scan(
		&slot.ID,
		&slot.InstructorID,
		&slot.Start,
		&slot.End,
		&slot.Reserved,
		&slot.ReservedBy,
		&slot.Version,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
