// db/repo_equipment.go
package db

import (
	"context"
	"errors"
	"strings"

	"Gin_postgres_redis_club_equipment/lifecycle"
	"Gin_postgres_redis_club_equipment/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// translateErr maps storage errors onto the lifecycle error kinds so the
// controllers only ever match sentinels.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return lifecycle.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		// unique_violation: lost the race on the partial index
		return lifecycle.ErrConstraintViolation
	}
	return err
}

// recomputeStatusTx is the single writer of Equipment.Status. It runs inside
// the same transaction as the mutation that triggered it, and takes the
// equipment row lock first so concurrent recomputes serialize before
// counting. Without the lock a transaction that only locked its own checkout
// or deficiency row could count stale state and overwrite a newer status.
func recomputeStatusTx(tx *gorm.DB, equipmentID string) error {
	var eq models.Equipment
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "out_of_service").
		First(&eq, "id = ?", equipmentID).Error; err != nil {
		return translateErr(err)
	}

	var openCheckouts int64
	if err := tx.Model(&models.Checkout{}).
		Where("equipment_id = ? AND returned_at IS NULL", equipmentID).
		Count(&openCheckouts).Error; err != nil {
		return err
	}

	var pendingMajor int64
	if err := tx.Model(&models.Deficiency{}).
		Where("equipment_id = ? AND status = ? AND severity = ?",
			equipmentID, models.DeficiencyPending, models.SeverityMajor).
		Count(&pendingMajor).Error; err != nil {
		return err
	}

	status := lifecycle.ComputeStatus(pendingMajor > 0, openCheckouts > 0, eq.OutOfService)
	return tx.Model(&models.Equipment{}).
		Where("id = ?", equipmentID).
		Update("status", status).Error
}

type CreateEquipmentInput struct {
	Name     string
	Category string
	Location string
	Notes    string
}

// CreateEquipment 管理员录入新设备，编号自动取 EQ### 序列的下一个。
func (r *Repo) CreateEquipment(ctx context.Context, actor *models.User, in CreateEquipmentInput) (*models.Equipment, error) {
	if !lifecycle.CanManageInventory(actor.Role) {
		return nil, lifecycle.ErrNotAuthorized
	}

	var eq *models.Equipment
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var codes []string
		if err := tx.Model(&models.Equipment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Pluck("code", &codes).Error; err != nil {
			return err
		}

		e := &models.Equipment{
			ID:       uuid.NewString(),
			Code:     lifecycle.NextEquipmentCode(codes),
			Name:     in.Name,
			Category: in.Category,
			Location: in.Location,
			Notes:    in.Notes,
			Status:   models.StatusAvailable,
		}
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		eq = e
		return nil
	})
	if err != nil {
		return nil, translateErr(err)
	}
	return eq, nil
}

type UpdateEquipmentInput struct {
	Name            *string
	Location        *string
	Notes           *string
	LastMaintenance *string // ISO date, empty string clears
}

func (r *Repo) UpdateEquipment(ctx context.Context, actor *models.User, id string, in UpdateEquipmentInput) (*models.Equipment, error) {
	if !lifecycle.CanManageInventory(actor.Role) {
		return nil, lifecycle.ErrNotAuthorized
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if in.LastMaintenance != nil {
		if *in.LastMaintenance == "" {
			updates["last_maintenance"] = nil
		} else {
			updates["last_maintenance"] = *in.LastMaintenance
		}
	}

	var eq models.Equipment
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&eq, "id = ?", id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&eq).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&eq, "id = ?", id).Error
	})
	if err != nil {
		return nil, translateErr(err)
	}
	return &eq, nil
}

// SetOutOfService 手动停用/启用。The stored flag survives recompute; the
// derived status only hides it while a repair or checkout takes precedence.
func (r *Repo) SetOutOfService(ctx context.Context, actor *models.User, id string, flag bool) (*models.Equipment, error) {
	if !lifecycle.CanManageInventory(actor.Role) {
		return nil, lifecycle.ErrNotAuthorized
	}

	var eq models.Equipment
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&eq, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&eq).Update("out_of_service", flag).Error; err != nil {
			return err
		}
		if err := recomputeStatusTx(tx, eq.ID); err != nil {
			return err
		}
		return tx.First(&eq, "id = ?", id).Error
	})
	if err != nil {
		return nil, translateErr(err)
	}
	return &eq, nil
}

func (r *Repo) FindEquipmentByID(ctx context.Context, id string) (*models.Equipment, error) {
	var eq models.Equipment
	if err := r.DB.WithContext(ctx).First(&eq, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &eq, nil
}

func (r *Repo) FindEquipmentByCode(ctx context.Context, code string) (*models.Equipment, error) {
	var eq models.Equipment
	if err := r.DB.WithContext(ctx).First(&eq, "code = ?", code).Error; err != nil {
		return nil, translateErr(err)
	}
	return &eq, nil
}

// ListEquipment 列表（关键词/类别/状态过滤）
func (r *Repo) ListEquipment(ctx context.Context, q, category, status string) ([]models.Equipment, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Equipment{}).Order("code ASC")
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ? OR LOWER(location) LIKE ?", like, like, like)
	}
	if category != "" {
		tx = tx.Where("category = ?", category)
	}
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var items []models.Equipment
	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
