// controllers/checkout_controller.go
package controllers

import (
	"net/http"
	"time"

	"Gin_postgres_redis_club_equipment/app"
	"Gin_postgres_redis_club_equipment/db"
	"Gin_postgres_redis_club_equipment/metrics"

	"github.com/gin-gonic/gin"
)

type CheckoutController struct{ *Srv }

func NewCheckoutController(s *Srv) *CheckoutController { return &CheckoutController{Srv: s} }

// CheckOut 借出
func (cc *CheckoutController) CheckOut(c *gin.Context) {
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
		UseType        string     `json:"useType" binding:"required"`
		Purpose        string     `json:"purpose"`
		ExpectedReturn *time.Time `json:"expectedReturn"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	co, err := cc.Repo.CheckOut(c.Request.Context(), actor, db.CheckOutInput{
		EquipmentID:    equipmentID,
		UseType:        in.UseType,
		Purpose:        in.Purpose,
		ExpectedReturn: in.ExpectedReturn,
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	metrics.CheckoutsTotal.Inc()
	c.JSON(http.StatusCreated, co)
}

// Return 归还，可附带缺陷报告
func (cc *CheckoutController) Return(c *gin.Context) {
	checkoutID := c.Param("checkoutId")
	if checkoutID == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing checkout id"})
		return
	}
	actor := app.CurrentUser(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}

	var in struct {
		Condition  string `json:"condition" binding:"required"` // good|deficiency
		Deficiency *struct {
			Description string `json:"description"`
			Severity    string `json:"severity"`
		} `json:"deficiency"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	rin := db.ReturnInput{CheckoutID: checkoutID, Condition: in.Condition}
	if in.Deficiency != nil {
		rin.Description = in.Deficiency.Description
		rin.Severity = in.Deficiency.Severity
	}

	co, err := cc.Repo.ReturnCheckout(c.Request.Context(), actor, rin)
	if err != nil {
		writeErr(c, err)
		return
	}
	metrics.ReturnsTotal.WithLabelValues(in.Condition).Inc()
	c.JSON(http.StatusOK, co)
}

// ListCheckouts 借还记录 ?status=open|returned&userId=&equipmentId=
func (cc *CheckoutController) ListCheckouts(c *gin.Context) {
	cs, err := cc.Repo.ListCheckouts(c.Request.Context(),
		c.Query("userId"), c.Query("equipmentId"), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": cs})
}

// ListMyOpenCheckouts 普通用户：自己手上还没还的设备
func (cc *CheckoutController) ListMyOpenCheckouts(c *gin.Context) {
	actor := app.CurrentUser(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	cs, err := cc.Repo.ListCheckouts(c.Request.Context(), actor.ID, "", "open")
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": cs})
}
