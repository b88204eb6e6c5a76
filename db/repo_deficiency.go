// db/repo_deficiency.go
package db

import (
	"context"
	"fmt"
	"time"

	"Gin_postgres_redis_club_equipment/lifecycle"
	"Gin_postgres_redis_club_equipment/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportDeficiencyInput struct {
	EquipmentID string
	Description string
	Severity    string  // minor|major
	CheckoutID  *string // optional triggering checkout
}

// ReportDeficiency 独立报告缺陷。major 会把设备压到 needs-repair，
// 但不动未归还的 checkout 本身。
func (r *Repo) ReportDeficiency(ctx context.Context, actor *models.User, in ReportDeficiencyInput) (*models.Deficiency, error) {
	if !lifecycle.CanCheckOut(actor.Role) {
		return nil, lifecycle.ErrNotAuthorized
	}
	if in.Severity != models.SeverityMinor && in.Severity != models.SeverityMajor {
		return nil, fmt.Errorf("unknown severity %q: %w", in.Severity, lifecycle.ErrInvalidState)
	}
	if in.Description == "" {
		return nil, fmt.Errorf("description required: %w", lifecycle.ErrInvalidState)
	}

	var def *models.Deficiency
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var eq models.Equipment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&eq, "id = ?", in.EquipmentID).Error; err != nil {
			return err
		}
		d := &models.Deficiency{
			ID:          uuid.NewString(),
			EquipmentID: eq.ID,
			CheckoutID:  in.CheckoutID,
			ReportedBy:  actor.ID,
			ReportedAt:  time.Now().UTC(),
			Description: in.Description,
			Severity:    in.Severity,
			Status:      models.DeficiencyPending,
		}
		if err := tx.Create(d).Error; err != nil {
			return err
		}
		if err := recomputeStatusTx(tx, eq.ID); err != nil {
			return err
		}
		def = d
		return nil
	})
	if err != nil {
		return nil, translateErr(err)
	}
	return def, nil
}

// ResolveDeficiency 维修完结。重算后设备回到 checked-out（若仍有人借着）、
// out-of-service（若手动停用）或 available。
func (r *Repo) ResolveDeficiency(ctx context.Context, actor *models.User, deficiencyID, notes string) (*models.Deficiency, error) {
	if !lifecycle.CanManageInventory(actor.Role) {
		return nil, lifecycle.ErrNotAuthorized
	}

	var d models.Deficiency
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&d, "id = ?", deficiencyID).Error; err != nil {
			return err
		}
		if d.Status != models.DeficiencyPending {
			return fmt.Errorf("deficiency already resolved: %w", lifecycle.ErrInvalidState)
		}

		now := time.Now().UTC()
		d.Status = models.DeficiencyResolved
		d.ResolvedBy = &actor.ID
		d.ResolvedAt = &now
		d.ResolutionNotes = notes
		if err := tx.Save(&d).Error; err != nil {
			return err
		}
		return recomputeStatusTx(tx, d.EquipmentID)
	})
	if err != nil {
		return nil, translateErr(err)
	}
	return &d, nil
}

func (r *Repo) ListDeficiencies(ctx context.Context, equipmentID, status string) ([]models.Deficiency, error) {
	q := r.DB.WithContext(ctx).Model(&models.Deficiency{}).Order("reported_at DESC")
	if equipmentID != "" {
		q = q.Where("equipment_id = ?", equipmentID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var ds []models.Deficiency
	if err := q.Find(&ds).Error; err != nil {
		return nil, err
	}
	return ds, nil
}
