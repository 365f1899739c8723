package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleSatisfies(t *testing.T) {
	require.True(t, RoleSuperUser.Satisfies(RoleSuperUser))
	require.True(t, RoleSuperUser.Satisfies(RoleEmployee))
	require.True(t, RoleEmployee.Satisfies(RoleEmployee))
	require.False(t, RoleEmployee.Satisfies(RoleSuperUser))
}

func TestRoleValid(t *testing.T) {
	require.True(t, RoleEmployee.Valid())
	require.True(t, RoleSuperUser.Valid())
	require.False(t, Role("ROOT").Valid())
	require.False(t, Role("").Valid())
}
