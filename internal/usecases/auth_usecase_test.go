package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttchat/internal/entities"
)

func newAuthUsecaseForTest() (*AuthUsecase, *fakeTenantStore) {
	tenants := newFakeTenantStore()
	uc := NewAuthUsecase(tenants, newFakeBotConfigStore(), newFakeIntegrationStore(), "test-secret", time.Hour)
	return uc, tenants
}

func TestRegisterAssignsTrialDefaults(t *testing.T) {
	uc, _ := newAuthUsecaseForTest()

	tenant, token, err := uc.Register(context.Background(), "owner@example.com", "s3cretpass", "Owner")
	require.NoError(t, err)
	require.NotNil(t, tenant)

	assert.NotEmpty(t, token)
	assert.NotEmpty(t, tenant.ID)
	assert.Equal(t, entities.PlanTrial, tenant.SubscriptionPlan)
	assert.Equal(t, entities.SubscriptionTrial, tenant.SubscriptionStatus)
	assert.NotEqual(t, "s3cretpass", tenant.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _ := newAuthUsecaseForTest()

	_, _, err := uc.Register(context.Background(), "owner@example.com", "s3cretpass", "Owner")
	require.NoError(t, err)

	_, _, err = uc.Register(context.Background(), "owner@example.com", "otherpass1", "Other")
	assert.ErrorIs(t, err, entities.ErrEmailTaken)
}

func TestLoginTokenResolvesSameTenant(t *testing.T) {
	uc, _ := newAuthUsecaseForTest()

	registered, _, err := uc.Register(context.Background(), "owner@example.com", "s3cretpass", "Owner")
	require.NoError(t, err)

	tenant, token, err := uc.Login(context.Background(), "owner@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, tenant.ID)

	tenantID, err := uc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, tenantID)

	profile, err := uc.Me(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", profile.Email)
	assert.Nil(t, profile.BotConfig)
	assert.Empty(t, profile.Integrations)
}

func TestLoginWrongPassword(t *testing.T) {
	uc, _ := newAuthUsecaseForTest()

	_, _, err := uc.Register(context.Background(), "owner@example.com", "s3cretpass", "Owner")
	require.NoError(t, err)

	_, _, err = uc.Login(context.Background(), "owner@example.com", "wrongpass1")
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)

	_, _, err = uc.Login(context.Background(), "nobody@example.com", "s3cretpass")
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
}

func TestVerifyTokenRejectsForeignSignature(t *testing.T) {
	uc, _ := newAuthUsecaseForTest()

	other := NewAuthUsecase(newFakeTenantStore(), newFakeBotConfigStore(), newFakeIntegrationStore(), "other-secret", time.Hour)
	tenant, token, err := other.Register(context.Background(), "owner@example.com", "s3cretpass", "Owner")
	require.NoError(t, err)
	require.NotEmpty(t, tenant.ID)

	_, err = uc.VerifyToken(token)
	assert.ErrorIs(t, err, entities.ErrUnauthorized)
}

func TestUpdateProfilePartial(t *testing.T) {
	uc, _ := newAuthUsecaseForTest()

	tenant, _, err := uc.Register(context.Background(), "owner@example.com", "s3cretpass", "Owner")
	require.NoError(t, err)

	updated, err := uc.UpdateProfile(context.Background(), tenant.ID, "New Name", "")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, tenant.Email, updated.Email)
}
