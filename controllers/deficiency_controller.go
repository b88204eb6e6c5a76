// controllers/deficiency_controller.go
package controllers

import (
	"net/http"

	"Gin_postgres_redis_club_equipment/app"
	"Gin_postgres_redis_club_equipment/db"
	"Gin_postgres_redis_club_equipment/metrics"

	"github.com/gin-gonic/gin"
)

type DeficiencyController struct{ *Srv }

func NewDeficiencyController(s *Srv) *DeficiencyController { return &DeficiencyController{Srv: s} }

// Report 独立报告缺陷（不经归还）
func (dc *DeficiencyController) Report(c *gin.Context) {
	equipmentID := c.Param("id")
	if equipmentID == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing equipment id"})
		return
	}
	actor := app.CurrentUser(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}

	var in struct {
		Description string  `json:"description" binding:"required"`
		Severity    string  `json:"severity" binding:"required"` // minor|major
		CheckoutID  *string `json:"checkoutId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	d, err := dc.Repo.ReportDeficiency(c.Request.Context(), actor, db.ReportDeficiencyInput{
		EquipmentID: equipmentID,
		Description: in.Description,
		Severity:    in.Severity,
		CheckoutID:  in.CheckoutID,
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	metrics.DeficienciesReportedTotal.WithLabelValues(in.Severity).Inc()
	c.JSON(http.StatusCreated, d)
}

// Resolve 维修完结（chair/admin）
func (dc *DeficiencyController) Resolve(c *gin.Context) {
	deficiencyID := c.Param("deficiencyId")
	if deficiencyID == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing deficiency id"})
		return
	}
	actor := app.CurrentUser(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}

	var in struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&in)

	d, err := dc.Repo.ResolveDeficiency(c.Request.Context(), actor, deficiencyID, in.Notes)
	if err != nil {
		writeErr(c, err)
		return
	}
	metrics.DeficienciesResolvedTotal.Inc()
	c.JSON(http.StatusOK, d)
}

// List ?equipmentId=&status=pending|resolved
func (dc *DeficiencyController) List(c *gin.Context) {
	ds, err := dc.Repo.ListDeficiencies(c.Request.Context(),
		c.Query("equipmentId"), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": ds})
}
