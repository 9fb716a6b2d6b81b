package service

import (
	"context"
	"testing"
	"time"

	"catering-service/internal/models"
	"catering-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authFixture(t *testing.T) (*AuthService, models.User) {
	t.Helper()
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewAuthService(st, "test-secret", time.Hour)

	user, err := st.AddUser(ctx, models.User{
		Name: "Ana", Email: "ana@school.test", Role: models.RoleAdmin,
	})
	require.NoError(t, err)
	require.NoError(t, svc.SetPassword(ctx, user.ID, user.Email, "s3cret"))
	return svc, user
}

func TestLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, user := authFixture(t)

	token, got, err := svc.Login(ctx, "ana@school.test", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Empty(t, claims.ActingAs)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := authFixture(t)
	_, _, err := svc.Login(context.Background(), "ana@school.test", "wrong")
	assert.ErrorIs(t, err, store.ErrValidation)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := authFixture(t)
	_, _, err := svc.Login(context.Background(), "ghost@school.test", "s3cret")
	assert.ErrorIs(t, err, store.ErrValidation)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	svc, _ := authFixture(t)
	token, _, err := svc.Login(context.Background(), "ana@school.test", "s3cret")
	require.NoError(t, err)

	other := NewAuthService(newTestStore(t), "other-secret", time.Hour)
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestImpersonateAdminOnly(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewAuthService(st, "test-secret", time.Hour)

	admin, err := st.AddUser(ctx, models.User{Name: "Ana", Role: models.RoleAdmin})
	require.NoError(t, err)
	teacher, err := st.AddUser(ctx, models.User{Name: "Luis", Role: models.RoleTeacher})
	require.NoError(t, err)

	token, err := svc.Impersonate(&Claims{UserID: admin.ID, Role: models.RoleAdmin}, teacher.ID)
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
	assert.Equal(t, admin.ID, claims.ActingAs)

	_, err = svc.Impersonate(&Claims{UserID: teacher.ID, Role: models.RoleTeacher}, admin.ID)
	assert.ErrorIs(t, err, store.ErrBusinessRule)
}
