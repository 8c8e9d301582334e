package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleIsStaff(t *testing.T) {
	assert.True(t, RoleOwner.IsStaff())
	assert.True(t, RoleAdmin.IsStaff())
	assert.True(t, RoleDeveloper.IsStaff())
	assert.False(t, RoleViewer.IsStaff())
	assert.False(t, Role("").IsStaff())
	assert.False(t, Role("banned").IsStaff())
}
