// db/repo_checkout.go
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

type CheckOutInput struct {
	EquipmentID    string
	UseType        string // club|personal
	Purpose        string
	ExpectedReturn *time.Time
}

// CheckOut 借出：原子操作 = 锁住 equipment → 校验 available → 新建 checkout → 重算状态
// A concurrent winner flips the status under the lock; a true race on the
// insert itself is caught by the partial unique index (23505).
func (r *Repo) CheckOut(ctx context.Context, actor *models.User, in CheckOutInput) (*models.Checkout, error) {
	if !lifecycle.CanCheckOut(actor.Role) {
		return nil, lifecycle.ErrNotAuthorized
	}
	if in.UseType != models.UseTypeClub && in.UseType != models.UseTypePersonal {
		return nil, fmt.Errorf("unknown use type %q: %w", in.UseType, lifecycle.ErrInvalidState)
	}

	var co *models.Checkout
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) 锁住该设备
		var eq models.Equipment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&eq, "id = ?", in.EquipmentID).Error; err != nil {
			return err
		}
		// 2) 前置条件：必须 available（checked-out/needs-repair/out-of-service 都拒绝）
		if err := lifecycle.CheckOutPrecondition(eq.Status); err != nil {
			return err
		}
		// 3) 新建 Checkout
		c := &models.Checkout{
			ID:             uuid.NewString(),
			EquipmentID:    eq.ID,
			UserID:         actor.ID,
			CheckedOutAt:   time.Now().UTC(),
			ExpectedReturn: in.ExpectedReturn,
			UseType:        in.UseType,
			Purpose:        in.Purpose,
		}
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		// 4) 重算状态（同一事务内）
		if err := recomputeStatusTx(tx, eq.ID); err != nil {
			return err
		}
		co = c
		return nil
	})
	if err != nil {
		return nil, translateErr(err)
	}
	return co, nil
}

type ReturnInput struct {
	CheckoutID string
	Condition  string // good|deficiency
	// Deficiency detail, only read when Condition == deficiency.
	Description string
	Severity    string // minor|major, defaults to minor
}

// ReturnCheckout 归还：完成 checkout →（可选）登记缺陷 → 重算状态
func (r *Repo) ReturnCheckout(ctx context.Context, actor *models.User, in ReturnInput) (*models.Checkout, error) {
	if !lifecycle.CanCheckOut(actor.Role) {
		return nil, lifecycle.ErrNotAuthorized
	}
	if in.Condition != models.ConditionGood && in.Condition != models.ConditionDeficiency {
		return nil, fmt.Errorf("unknown return condition %q: %w", in.Condition, lifecycle.ErrInvalidState)
	}

	var co models.Checkout
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&co, "id = ?", in.CheckoutID).Error; err != nil {
			return err
		}
		if co.ReturnedAt != nil {
			return lifecycle.ErrAlreadyReturned
		}

		now := time.Now().UTC()
		co.ReturnedAt = &now
		co.ReturnCondition = in.Condition
		if err := tx.Save(&co).Error; err != nil {
			return err
		}

		// 返回时报缺陷：有描述才立案
		if in.Condition == models.ConditionDeficiency && in.Description != "" {
			sev := in.Severity
			if sev == "" {
				sev = models.SeverityMinor
			}
			if sev != models.SeverityMinor && sev != models.SeverityMajor {
				return fmt.Errorf("unknown severity %q: %w", sev, lifecycle.ErrInvalidState)
			}
			d := &models.Deficiency{
				ID:          uuid.NewString(),
				EquipmentID: co.EquipmentID,
				CheckoutID:  &co.ID,
				ReportedBy:  actor.ID,
				ReportedAt:  now,
				Description: in.Description,
				Severity:    sev,
				Status:      models.DeficiencyPending,
			}
			if err := tx.Create(d).Error; err != nil {
				return err
			}
		}

		return recomputeStatusTx(tx, co.EquipmentID)
	})
	if err != nil {
		return nil, translateErr(err)
	}
	return &co, nil
}

// ListCheckouts 借还记录
func (r *Repo) ListCheckouts(ctx context.Context, userID, equipmentID, status string) ([]models.Checkout, error) {
	q := r.DB.WithContext(ctx).Model(&models.Checkout{}).Order("checked_out_at DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if equipmentID != "" {
		q = q.Where("equipment_id = ?", equipmentID)
	}
	if status == "open" {
		q = q.Where("returned_at IS NULL")
	} else if status == "returned" {
		q = q.Where("returned_at IS NOT NULL")
	}
	var cs []models.Checkout
	if err := q.Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

// ListOpenCheckouts feeds the overdue aggregation.
func (r *Repo) ListOpenCheckouts(ctx context.Context) ([]models.Checkout, error) {
	var cs []models.Checkout
	err := r.DB.WithContext(ctx).
		Where("returned_at IS NULL").
		Order("checked_out_at ASC").
		Find(&cs).Error
	return cs, err
}
