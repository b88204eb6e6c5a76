// Package lifecycle holds the equipment state rules: the status recompute,
// role capabilities and the equipment code sequence. Pure functions, no I/O;
// db.Repo runs these inside the same transaction as each write.
package lifecycle

import (
	"fmt"
	"regexp"
	"strconv"

	"Gin_postgres_redis_club_equipment/models"
)

// ComputeStatus derives the visible equipment status. Precedence:
// pending major deficiency > open checkout > manual out-of-service flag >
// available. Run after every mutating operation; no other code path may set
// Equipment.Status.
func ComputeStatus(pendingMajor, openCheckout, outOfService bool) string {
	switch {
	case pendingMajor:
		return models.StatusNeedsRepair
	case openCheckout:
		return models.StatusCheckedOut
	case outOfService:
		return models.StatusOutOfService
	default:
		return models.StatusAvailable
	}
}

// CheckOutPrecondition rejects checkout of anything not currently available.
func CheckOutPrecondition(status string) error {
	if status != models.StatusAvailable {
		return fmt.Errorf("equipment is %s: %w", status, ErrInvalidState)
	}
	return nil
}

// Capabilities. Role branching lives here and nowhere else.

func CanCheckOut(role string) bool {
	switch role {
	case models.RoleVolunteer, models.RoleChair, models.RoleAdmin:
		return true
	}
	return false
}

func CanManageInventory(role string) bool {
	return role == models.RoleChair || role == models.RoleAdmin
}

var codeRe = regexp.MustCompile(`^EQ(\d{3})$`)

// NextEquipmentCode scans existing codes matching EQ### and returns max+1,
// zero-padded. Codes in other formats (legacy imports) are ignored.
func NextEquipmentCode(existing []string) string {
	max := 0
	for _, c := range existing {
		m := codeRe.FindStringSubmatch(c)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("EQ%03d", max+1)
}
