// app/bootstrap.go
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"Gin_postgres_redis_club_equipment/db"
	"Gin_postgres_redis_club_equipment/models"
)

// BootstrapFirstAdmin creates a one-shot admin invite when the club_users
// table has no admin yet, so a fresh deployment can be claimed.
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.BootstrapEmail == "" {
		return
	}
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		log.Printf("bootstrap admin count failed: %v", err)
		return
	}
	if n > 0 {
		return // 已经有管理员，跳过
	}

	buf := make([]byte, 16)
	rand.Read(buf)
	token := hex.EncodeToString(buf)

	if _, err := repo.CreateInvite(ctx, db.CreateInviteInput{
		Email:        cfg.BootstrapEmail,
		MemberNumber: 1,
		Role:         models.RoleAdmin,
		Token:        token,
		ExpiresAt:    time.Now().Add(24 * time.Hour),
		CreatedBy:    "bootstrap",
	}); err != nil {
		log.Printf("bootstrap invite failed: %v", err)
		return
	}

	link := fmt.Sprintf("%s/login?inviteToken=%s", cfg.WebOrigin, token)
	log.Printf("[BOOTSTRAP] No admin found, created an admin invite for %s", cfg.BootstrapEmail)
	log.Printf("[BOOTSTRAP] Open this URL to register the first admin: %s", link)
}
