package lifecycle

import (
	"errors"
	"testing"

	"Gin_postgres_redis_club_equipment/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeStatusPrecedence(t *testing.T) {
	tests := []struct {
		name         string
		pendingMajor bool
		openCheckout bool
		outOfService bool
		want         string
	}{
		{"idle", false, false, false, models.StatusAvailable},
		{"checked out", false, true, false, models.StatusCheckedOut},
		{"major deficiency alone", true, false, false, models.StatusNeedsRepair},
		{"major deficiency beats checkout", true, true, false, models.StatusNeedsRepair},
		{"manual flag alone", false, false, true, models.StatusOutOfService},
		{"checkout beats manual flag", false, true, true, models.StatusCheckedOut},
		{"major deficiency beats manual flag", true, false, true, models.StatusNeedsRepair},
		{"everything at once", true, true, true, models.StatusNeedsRepair},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStatus(tt.pendingMajor, tt.openCheckout, tt.outOfService)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckOutPrecondition(t *testing.T) {
	assert.NoError(t, CheckOutPrecondition(models.StatusAvailable))

	for _, s := range []string{models.StatusCheckedOut, models.StatusNeedsRepair, models.StatusOutOfService} {
		err := CheckOutPrecondition(s)
		assert.True(t, errors.Is(err, ErrInvalidState), "status %s should be rejected", s)
	}
}

func TestAlreadyReturnedIsInvalidState(t *testing.T) {
	assert.True(t, errors.Is(ErrAlreadyReturned, ErrInvalidState))
}

func TestCapabilities(t *testing.T) {
	assert.True(t, CanCheckOut(models.RoleVolunteer))
	assert.True(t, CanCheckOut(models.RoleChair))
	assert.True(t, CanCheckOut(models.RoleAdmin))
	assert.False(t, CanCheckOut(""))
	assert.False(t, CanCheckOut("guest"))

	assert.False(t, CanManageInventory(models.RoleVolunteer))
	assert.True(t, CanManageInventory(models.RoleChair))
	assert.True(t, CanManageInventory(models.RoleAdmin))
}

func TestNextEquipmentCode(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"empty inventory", nil, "EQ001"},
		{"sequential", []string{"EQ001", "EQ002", "EQ003"}, "EQ004"},
		{"gaps do not get reused", []string{"EQ001", "EQ007"}, "EQ008"},
		{"unordered", []string{"EQ012", "EQ002"}, "EQ013"},
		{"foreign codes ignored", []string{"EQ001", "TOOL-9", "EQ0005", "eq002"}, "EQ002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextEquipmentCode(tt.existing))
		})
	}
}
