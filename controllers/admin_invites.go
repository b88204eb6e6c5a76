package controllers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"net/smtp"
	"time"

	"Gin_postgres_redis_club_equipment/app"
	"Gin_postgres_redis_club_equipment/db"
	"Gin_postgres_redis_club_equipment/models"

	"github.com/gin-gonic/gin"
)

type InviteController struct {
	repo *db.Repo
	cfg  app.Config
}

func GetInviteController(repo *db.Repo, cfg app.Config) *InviteController {
	return &InviteController{repo: repo, cfg: cfg}
}

// CreateInvite 管理员发邀请：邮箱 + 会员号 + 角色
func (ic *InviteController) CreateInvite(c *gin.Context) {
	var in struct {
		Email        string `json:"email" binding:"required,email"`
		MemberNumber int64  `json:"memberNumber" binding:"required"`
		Role         string `json:"role"`
		Expires      int    `json:"expiresDays"` // 默认 1 天
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.Expires <= 0 {
		in.Expires = 1
	}
	if in.Role == "" {
		in.Role = models.RoleVolunteer
	}
	switch in.Role {
	case models.RoleVolunteer, models.RoleChair, models.RoleAdmin:
	default:
		c.JSON(http.StatusBadRequest, app.H{"error": "unknown role"})
		return
	}

	buf := make([]byte, 16)
	rand.Read(buf)
	token := hex.EncodeToString(buf)

	createdBy := "admin"
	if me := app.CurrentUser(c); me != nil {
		createdBy = me.Username
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	inv, err := ic.repo.CreateInvite(ctx, db.CreateInviteInput{
		Email:        in.Email,
		MemberNumber: in.MemberNumber,
		Role:         in.Role,
		Token:        token,
		ExpiresAt:    time.Now().AddDate(0, 0, in.Expires),
		CreatedBy:    createdBy,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	link := ic.cfg.WebOrigin + "/login?inviteToken=" + token
	ic.sendInviteMail(in.Email, link)

	c.JSON(http.StatusCreated, app.H{
		"token":  token,
		"link":   link,
		"invite": inv,
	})
}

// sendInviteMail 邮件可选：SMTP 未配置就只返回链接
func (ic *InviteController) sendInviteMail(to, link string) {
	if ic.cfg.SMTPHost == "" || ic.cfg.SMTPFrom == "" {
		return
	}
	subject := "Subject: Club equipment tracker invitation\r\n"
	message := []byte(subject + "\r\n" + link)
	auth := smtp.PlainAuth("", ic.cfg.SMTPFrom, ic.cfg.SMTPPass, ic.cfg.SMTPHost)

	if err := smtp.SendMail(ic.cfg.SMTPHost+":"+ic.cfg.SMTPPort, auth, ic.cfg.SMTPFrom, []string{to}, message); err != nil {
		log.Printf("invite mail: %v", err)
	}
}
