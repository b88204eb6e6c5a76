// controllers/report_controller.go
package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"Gin_postgres_redis_club_equipment/app"
	"Gin_postgres_redis_club_equipment/export"
	"Gin_postgres_redis_club_equipment/models"
	"Gin_postgres_redis_club_equipment/reports"

	"github.com/gin-gonic/gin"
)

type ReportController struct{ *Srv }

func NewReportController(s *Srv) *ReportController { return &ReportController{Srv: s} }

// Overdue 逾期清单，最逾期的排前面
func (rc *ReportController) Overdue(c *gin.Context) {
	open, err := rc.Repo.ListOpenCheckouts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	out := reports.OverdueCheckouts(open, time.Now())
	c.JSON(http.StatusOK, app.H{"items": out})
}

// MaintenanceDue 维护到期清单（未维护过的排最前）
func (rc *ReportController) MaintenanceDue(c *gin.Context) {
	items, err := rc.Repo.ListEquipment(c.Request.Context(), "", "", "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	out := reports.MaintenanceDue(items, reports.DefaultIntervals, time.Now())
	c.JSON(http.StatusOK, app.H{"items": out})
}

func sendCSV(c *gin.Context, name string, write func(*gin.Context) error) {
	filename := export.Filename(name, time.Now(), "csv")
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := write(c); err != nil {
		// headers already gone; just log via gin's error list
		_ = c.Error(err)
	}
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// EquipmentCSV 导出设备清单
func (rc *ReportController) EquipmentCSV(c *gin.Context) {
	items, err := rc.Repo.ListEquipment(c.Request.Context(),
		c.Query("q"), c.Query("category"), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	cols := []export.Column[models.Equipment]{
		{Header: "Code", Value: func(e models.Equipment) string { return e.Code }},
		{Header: "Name", Value: func(e models.Equipment) string { return e.Name }},
		{Header: "Category", Value: func(e models.Equipment) string { return e.Category }},
		{Header: "Location", Value: func(e models.Equipment) string { return e.Location }},
		{Header: "Status", Value: func(e models.Equipment) string { return e.Status }},
		{Header: "LastMaintenance", Value: func(e models.Equipment) string { return fmtDate(e.LastMaintenance) }},
		{Header: "Notes", Value: func(e models.Equipment) string { return e.Notes }},
	}
	sendCSV(c, "equipment", func(c *gin.Context) error {
		return export.Write(c.Writer, cols, items)
	})
}

// CheckoutsCSV 导出借还记录
func (rc *ReportController) CheckoutsCSV(c *gin.Context) {
	cs, err := rc.Repo.ListCheckouts(c.Request.Context(),
		c.Query("userId"), c.Query("equipmentId"), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	cols := []export.Column[models.Checkout]{
		{Header: "EquipmentID", Value: func(co models.Checkout) string { return co.EquipmentID }},
		{Header: "UserID", Value: func(co models.Checkout) string { return co.UserID }},
		{Header: "CheckedOutAt", Value: func(co models.Checkout) string { return co.CheckedOutAt.UTC().Format(time.RFC3339) }},
		{Header: "ExpectedReturn", Value: func(co models.Checkout) string { return fmtDate(co.ExpectedReturn) }},
		{Header: "ReturnedAt", Value: func(co models.Checkout) string {
			if co.ReturnedAt == nil {
				return ""
			}
			return co.ReturnedAt.UTC().Format(time.RFC3339)
		}},
		{Header: "UseType", Value: func(co models.Checkout) string { return co.UseType }},
		{Header: "Purpose", Value: func(co models.Checkout) string { return co.Purpose }},
		{Header: "ReturnCondition", Value: func(co models.Checkout) string { return co.ReturnCondition }},
		{Header: "DaysOverdue", Value: func(co models.Checkout) string {
			od := reports.OverdueCheckouts([]models.Checkout{co}, time.Now())
			if len(od) == 0 {
				return "0"
			}
			return strconv.Itoa(od[0].DaysOverdue)
		}},
	}
	sendCSV(c, "checkouts", func(c *gin.Context) error {
		return export.Write(c.Writer, cols, cs)
	})
}
