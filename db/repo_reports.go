// db/repo_reports.go
package db

import (
	"context"
	"strings"
	"time"

	"Gin_postgres_redis_club_equipment/models"

	"gorm.io/gorm"
)

type EquipmentRow struct {
	// Equipment fields
	ID              string     `json:"id"`
	Code            string     `json:"code"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	Location        string     `json:"location,omitempty"`
	Status          string     `json:"status"`
	OutOfService    bool       `json:"outOfService"`
	LastMaintenance *time.Time `json:"lastMaintenance,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// Current open checkout (nullable)
	CheckoutID          *string    `json:"checkoutId,omitempty"`
	BorrowerID          *string    `json:"borrowerId,omitempty"`
	BorrowerUsername    *string    `json:"borrowerUsername,omitempty"`
	BorrowerDisplayName *string    `json:"borrowerDisplayName,omitempty"`
	CheckedOutAt        *time.Time `json:"checkedOutAt,omitempty"`
	ExpectedReturn      *time.Time `json:"expectedReturn,omitempty"`
	Overdue             bool       `json:"overdue"` // 由 SQL 计算
}

type EquipmentReportQuery struct {
	Q        string // 模糊搜索：code/name
	Category string
	Status   string // "", equipment status, or "overdue"
	Page     int
	Size     int
}

type PagedEquipmentRows struct {
	Total int64          `json:"total"`
	Items []EquipmentRow `json:"items"`
}

// ListEquipmentWithCurrentCheckout 管理报表：每件设备带上当前未归还的 checkout。
func (r *Repo) ListEquipmentWithCurrentCheckout(ctx context.Context, q EquipmentReportQuery) (*PagedEquipmentRows, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 20
	}
	offset := (q.Page - 1) * q.Size

	db := r.DB.WithContext(ctx)

	// 子查询：每件设备“当前未归还”的最新一条 Checkout
	sub := db.
		Table(models.CheckoutTable + " c").
		Select(`
			DISTINCT ON (c.equipment_id)
			c.id, c.equipment_id, c.user_id, c.checked_out_at, c.expected_return
		`).
		Where("c.returned_at IS NULL").
		Order("c.equipment_id, c.checked_out_at DESC")

	base := db.
		Table(models.EquipmentTable+" e").
		Joins("LEFT JOIN (?) AS oc ON oc.equipment_id = e.id", sub).
		Joins("LEFT JOIN club_users u ON u.id = oc.user_id")

	// 过滤
	if s := strings.TrimSpace(q.Q); s != "" {
		pat := "%" + strings.ToLower(s) + "%"
		base = base.Where("LOWER(e.code) LIKE ? OR LOWER(e.name) LIKE ?", pat, pat)
	}
	if q.Category != "" {
		base = base.Where("e.category = ?", q.Category)
	}
	switch q.Status {
	case "overdue":
		base = base.Where("oc.expected_return IS NOT NULL AND oc.expected_return < NOW()")
	case "":
		// all
	default:
		base = base.Where("e.status = ?", q.Status)
	}

	// 可复用的查询会话：Count 和 Scan 共用同一组 where 条件
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Select("e.id").Count(&total).Error; err != nil {
		return nil, err
	}

	qry := base.Select(`
			e.id, e.code, e.name, e.category, e.location, e.status,
			e.out_of_service, e.last_maintenance, e.created_at, e.updated_at,
			oc.id             AS checkout_id,
			oc.user_id        AS borrower_id,
			oc.checked_out_at,
			oc.expected_return,
			u.username        AS borrower_username,
			u.display_name    AS borrower_display_name,
			CASE WHEN oc.expected_return IS NOT NULL AND oc.expected_return < NOW()
			     THEN TRUE ELSE FALSE END AS overdue
		`).
		Order("e.code ASC").Offset(offset).Limit(q.Size)

	var rows []EquipmentRow
	if err := qry.Scan(&rows).Error; err != nil {
		return nil, err
	}

	return &PagedEquipmentRows{Total: total, Items: rows}, nil
}
