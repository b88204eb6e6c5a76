package routes

import (
	"Gin_postgres_redis_club_equipment/app"
	"Gin_postgres_redis_club_equipment/controllers"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	uc := controllers.GetUserController(s.Repo, s.AppSess, a.Config)
	inviteCtl := controllers.GetInviteController(s.Repo, a.Config)
	equipCtl := controllers.NewEquipmentController(s)
	checkoutCtl := controllers.NewCheckoutController(s)
	defCtl := controllers.NewDeficiencyController(s)
	reportCtl := controllers.NewReportController(s)

	// 复用的中间件
	authMW := app.AuthRequired(s.AppSess, s.Repo)
	manageMW := app.ManageInventoryOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)
	secureCookie := strings.HasPrefix(a.Config.WebOrigin, "https://")

	// Prometheus
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ------------------------------
	// WebAuthn（公开+受保护）
	// ------------------------------
	wa := r.Group("/webauthn")
	{
		// 公开：注册/登录流程
		wa.POST("/register/begin", s.BeginRegistration)
		wa.POST("/register/finish", s.FinishRegistration)

		wa.POST("/login/begin", s.BeginLogin)
		wa.POST("/login/finish", s.FinishLogin)
	}

	waAuth := wa.Group("", authMW, seenMW)
	{
		waAuth.GET("/whoami", s.WhoAmI)

		// 登出
		waAuth.POST("/logout", func(c *app.Ctx) {
			if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
				_ = s.AppSess.Delete(c.Request.Context(), ck.Value)
			}
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     app.AppSessionCookie,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   secureCookie,
			})
			c.JSON(http.StatusOK, app.H{"ok": true})
		})
	}

	// 已登录用户添加新凭据（绑定手机等）
	creds := r.Group("/api/credentials", authMW, seenMW)
	{
		creds.POST("/add/begin", s.BeginAddCredential)
		creds.POST("/add/finish", s.FinishAddCredential)
	}

	// ------------------------------
	// 邀请 + 用户管理（chair/admin）
	// ------------------------------
	admin := r.Group("/admin", authMW, manageMW)
	{
		admin.POST("/invites", inviteCtl.CreateInvite)
	}

	users := r.Group("/api/users", authMW, manageMW)
	{
		users.GET("", uc.ListUsers) // ?q=&page=&size=
		users.GET("/:id", uc.GetUser)
		users.PUT("/:id/role", uc.SetRole)
		users.DELETE("/:id", uc.DeleteUser)
	}

	// ------------------------------
	// 设备（chair/admin 管理）
	// ------------------------------
	equipAdmin := r.Group("/api/equipment", authMW, manageMW)
	{
		equipAdmin.POST("", equipCtl.CreateEquipment)
		equipAdmin.PUT("/:id", equipCtl.UpdateEquipment)
		equipAdmin.PUT("/:id/out-of-service", equipCtl.SetOutOfService)
		equipAdmin.GET("/admin", equipCtl.ListEquipmentAdmin) // ?q=&category=&status=&page=&size=
	}

	// 设备浏览 + 借还 + 缺陷（所有成员）
	equip := r.Group("/api/equipment", authMW, seenMW)
	{
		equip.GET("", equipCtl.ListEquipment) // ?q=&category=&status=
		equip.GET("/:id", equipCtl.GetEquipment)
		equip.POST("/:id/checkout", checkoutCtl.CheckOut)
		equip.POST("/:id/deficiencies", defCtl.Report)
	}

	checkouts := r.Group("/api/checkouts", authMW, seenMW)
	{
		checkouts.GET("", checkoutCtl.ListCheckouts) // ?status=open|returned&userId=&equipmentId=
		checkouts.GET("/mine", checkoutCtl.ListMyOpenCheckouts)
		checkouts.POST("/:checkoutId/return", checkoutCtl.Return)
	}

	deficiencies := r.Group("/api/deficiencies", authMW, seenMW)
	{
		deficiencies.GET("", defCtl.List) // ?equipmentId=&status=
		deficiencies.POST("/:deficiencyId/resolve", manageMW, defCtl.Resolve)
	}

	// ------------------------------
	// 报表（chair/admin）
	// ------------------------------
	rep := r.Group("/api/reports", authMW, manageMW)
	{
		rep.GET("/overdue", reportCtl.Overdue)
		rep.GET("/maintenance", reportCtl.MaintenanceDue)
		rep.GET("/equipment.csv", reportCtl.EquipmentCSV)
		rep.GET("/checkouts.csv", reportCtl.CheckoutsCSV)
	}
}
