// controllers/equipment_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"Gin_postgres_redis_club_equipment/app"
	"Gin_postgres_redis_club_equipment/db"
	"Gin_postgres_redis_club_equipment/models"

	"github.com/gin-gonic/gin"
)

type EquipmentController struct{ *Srv }

func NewEquipmentController(s *Srv) *EquipmentController { return &EquipmentController{Srv: s} }

// CreateEquipment 管理员录入设备，EQ 编号自动分配
func (ec *EquipmentController) CreateEquipment(c *gin.Context) {
	var in struct {
		Name     string `json:"name" binding:"required"`
		Category string `json:"category" binding:"required"`
		Location string `json:"location"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if !models.ValidCategory(in.Category) {
		c.JSON(http.StatusBadRequest, app.H{"error": "unknown category"})
		return
	}

	eq, err := ec.Repo.CreateEquipment(c.Request.Context(), app.CurrentUser(c), db.CreateEquipmentInput{
		Name:     in.Name,
		Category: in.Category,
		Location: in.Location,
		Notes:    in.Notes,
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, eq)
}

func (ec *EquipmentController) UpdateEquipment(c *gin.Context) {
	id := c.Param("id")
	var in struct {
		Name            *string `json:"name"`
		Location        *string `json:"location"`
		Notes           *string `json:"notes"`
		LastMaintenance *string `json:"lastMaintenance"` // "2026-03-01", "" 清空
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.LastMaintenance != nil && *in.LastMaintenance != "" {
		if _, err := time.Parse("2006-01-02", *in.LastMaintenance); err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "lastMaintenance must be YYYY-MM-DD"})
			return
		}
	}

	eq, err := ec.Repo.UpdateEquipment(c.Request.Context(), app.CurrentUser(c), id, db.UpdateEquipmentInput{
		Name:            in.Name,
		Location:        in.Location,
		Notes:           in.Notes,
		LastMaintenance: in.LastMaintenance,
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, eq)
}

// SetOutOfService 手动停用/恢复
func (ec *EquipmentController) SetOutOfService(c *gin.Context) {
	id := c.Param("id")
	var in struct {
		OutOfService *bool `json:"outOfService" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	eq, err := ec.Repo.SetOutOfService(c.Request.Context(), app.CurrentUser(c), id, *in.OutOfService)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, eq)
}

// ListEquipment 列表（q/category/status 过滤）
func (ec *EquipmentController) ListEquipment(c *gin.Context) {
	items, err := ec.Repo.ListEquipment(c.Request.Context(),
		c.Query("q"), c.Query("category"), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

func (ec *EquipmentController) GetEquipment(c *gin.Context) {
	eq, err := ec.Repo.FindEquipmentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, eq)
}

// ListEquipmentAdmin 管理列表：带当前借用人和逾期标记
func (ec *EquipmentController) ListEquipmentAdmin(c *gin.Context) {
	q := db.EquipmentReportQuery{
		Q:        c.Query("q"),
		Category: c.Query("category"),
		Status:   c.Query("status"), // "", equipment status, "overdue"
	}
	if v := c.DefaultQuery("page", "1"); v != "" {
		q.Page, _ = strconv.Atoi(v)
	}
	if v := c.DefaultQuery("size", "20"); v != "" {
		q.Size, _ = strconv.Atoi(v)
	}

	res, err := ec.Repo.ListEquipmentWithCurrentCheckout(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "total": res.Total, "items": res.Items})
}
