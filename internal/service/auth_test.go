package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/festival-api/internal/domain"
)

func TestAuthService_SignupAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	provisioned, err := f.auth.SignupBoothManager(ctx, BoothManagerSignup{
		Nickname:    "솜사탕장인",
		Password:    "cotton123",
		BoothName:   "솜사탕",
		Location:    "운동장",
		Description: "달콤한 솜사탕",
	})
	require.NoError(t, err)
	assert.Len(t, provisioned.LoginCode, 5)
	assert.Equal(t, domain.RoleBoothManager, provisioned.Account.Role)
	assert.NotZero(t, provisioned.BoothID)

	booth, err := f.booths.FindByOwnerID(ctx, provisioned.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, provisioned.BoothID, booth.ID)
	assert.Equal(t, "솜사탕", booth.Name)
	assert.NotEmpty(t, booth.QRToken)

	account, err := f.auth.Login(ctx, strings.ToLower(provisioned.LoginCode)+" ", "cotton123")
	require.NoError(t, err)
	assert.Equal(t, provisioned.Account.ID, account.ID)

	_, err = f.auth.Login(ctx, provisioned.LoginCode, "wrong")
	assert.ErrorIs(t, err, ErrWrongCredentials)

	_, err = f.auth.Login(ctx, "ZZZZZ", "")
	assert.ErrorIs(t, err, ErrWrongCredentials)

	_, err = f.auth.SignupBoothManager(ctx, BoothManagerSignup{
		Nickname:  "솜사탕장인",
		Password:  "cotton123",
		BoothName: "다른 부스",
	})
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestAuthService_LoginWithoutPassword(t *testing.T) {
	f := newFixture(t)

	student := f.student(t, nil, nil, nil)

	account, err := f.auth.Login(context.Background(), student.LoginCode, "")
	require.NoError(t, err)
	assert.Equal(t, student.ID, account.ID)
}

func TestAuthService_BootstrapAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.auth.BootstrapAdmin(ctx, "", "secret")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = f.auth.BootstrapAdmin(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.auth.BootstrapAdmin(ctx, "other", "secret")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := f.auth.Login(ctx, "ADMIN", "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
}
