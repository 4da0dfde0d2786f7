package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", jwt.RoleManager, "stock-ledger", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, jwt.RoleManager, role)
}

func TestParse_Rechaza(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", jwt.RoleAdmin, "stock-ledger", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", token)
	assert.Error(t, err, "firma con otro secreto")

	expired, err := jwt.Generate("secreto", "u-1", jwt.RoleAdmin, "stock-ledger", -1)
	require.NoError(t, err)
	_, _, err = jwt.Parse("secreto", expired)
	assert.Error(t, err, "token expirado")

	_, _, err = jwt.Parse("", token)
	assert.Error(t, err)

	_, err = jwt.Generate("", "u-1", jwt.RoleAdmin, "x", 5)
	assert.Error(t, err)
}
