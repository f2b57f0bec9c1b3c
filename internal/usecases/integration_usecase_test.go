package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ttchat/internal/entities"
	"ttchat/internal/interfaces"
)

const resolverKey = "resolver-secret"

func newIntegrationUsecaseForTest() (*IntegrationUsecase, *fakeIntegrationStore, *fakeBroker) {
	store := newFakeIntegrationStore()
	broker := newFakeBroker()
	uc := NewIntegrationUsecase(store, broker, "https://api.example.com", resolverKey, zap.NewNop())
	return uc, store, broker
}

func TestStartURLRejectsUnknownProvider(t *testing.T) {
	uc, _, _ := newIntegrationUsecaseForTest()

	_, err := uc.StartURL("linkedin", "tenant-1")
	var verr *entities.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestStartURLCarriesTenantAsState(t *testing.T) {
	uc, _, _ := newIntegrationUsecaseForTest()

	url, err := uc.StartURL(entities.ProviderGoogle, "tenant-1")
	require.NoError(t, err)
	assert.Contains(t, url, "state=tenant-1")
}

func TestHandleCallbackUpsertsSingleRow(t *testing.T) {
	uc, store, broker := newIntegrationUsecaseForTest()

	broker.grants["code-1"] = &interfaces.TokenGrant{
		TokenRef: "ref-1",
		Scopes:   entities.ProviderScopes[entities.ProviderGoogle],
		Metadata: map[string]any{"email": "owner@example.com"},
	}
	broker.grants["code-2"] = &interfaces.TokenGrant{TokenRef: "ref-2"}

	require.NoError(t, uc.HandleCallback(context.Background(), entities.ProviderGoogle, "code-1", "tenant-1"))
	require.NoError(t, uc.HandleCallback(context.Background(), entities.ProviderGoogle, "code-2", "tenant-1"))

	assert.Equal(t, 1, store.count())

	integ, err := store.GetByTokenRef(context.Background(), "ref-2")
	require.NoError(t, err)
	require.NotNil(t, integ)
	assert.Equal(t, "tenant-1", integ.TenantID)

	// The old reference no longer resolves.
	stale, err := store.GetByTokenRef(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Nil(t, stale)
}

func TestHandleCallbackMissingCode(t *testing.T) {
	uc, _, _ := newIntegrationUsecaseForTest()

	err := uc.HandleCallback(context.Background(), entities.ProviderGoogle, "", "tenant-1")
	var verr *entities.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestStatusListsAllProviders(t *testing.T) {
	uc, _, broker := newIntegrationUsecaseForTest()

	broker.grants["code-1"] = &interfaces.TokenGrant{TokenRef: "ref-1", ExternalID: "page-9"}
	require.NoError(t, uc.HandleCallback(context.Background(), entities.ProviderFacebook, "code-1", "tenant-1"))

	status, err := uc.Status(context.Background(), "tenant-1")
	require.NoError(t, err)
	require.Len(t, status, 3)

	assert.Nil(t, status[entities.ProviderGoogle])
	assert.Nil(t, status[entities.ProviderInstagram])
	require.NotNil(t, status[entities.ProviderFacebook])
	assert.True(t, status[entities.ProviderFacebook].Connected)
	assert.Equal(t, "page-9", status[entities.ProviderFacebook].ExternalID)
}

func TestResolveTokenMintsFreshToken(t *testing.T) {
	uc, _, broker := newIntegrationUsecaseForTest()

	broker.grants["code-1"] = &interfaces.TokenGrant{TokenRef: "ref-1"}
	require.NoError(t, uc.HandleCallback(context.Background(), entities.ProviderGoogle, "code-1", "tenant-1"))

	res, err := uc.ResolveToken(context.Background(), "ref-1", resolverKey)
	require.NoError(t, err)
	assert.Equal(t, "fresh-ref-1", res.AccessToken)
	assert.Equal(t, entities.ProviderGoogle, res.Provider)
	assert.False(t, res.ExpiresAt.IsZero())
	assert.Equal(t, []string{"ref-1"}, broker.mintedRefs)
}

func TestResolveTokenRejectsBadAPIKey(t *testing.T) {
	uc, _, broker := newIntegrationUsecaseForTest()

	broker.grants["code-1"] = &interfaces.TokenGrant{TokenRef: "ref-1"}
	require.NoError(t, uc.HandleCallback(context.Background(), entities.ProviderGoogle, "code-1", "tenant-1"))

	_, err := uc.ResolveToken(context.Background(), "ref-1", "wrong-key")
	assert.ErrorIs(t, err, entities.ErrUnauthorized)
	assert.Empty(t, broker.mintedRefs, "broker must not be reached without a valid key")
}

func TestResolveTokenUnknownRef(t *testing.T) {
	uc, _, _ := newIntegrationUsecaseForTest()

	_, err := uc.ResolveToken(context.Background(), "no-such-ref", resolverKey)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestResolveTokenEmptyRef(t *testing.T) {
	uc, _, _ := newIntegrationUsecaseForTest()

	_, err := uc.ResolveToken(context.Background(), "", resolverKey)
	var verr *entities.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDisconnectRemovesRow(t *testing.T) {
	uc, store, broker := newIntegrationUsecaseForTest()

	broker.grants["code-1"] = &interfaces.TokenGrant{TokenRef: "ref-1"}
	require.NoError(t, uc.HandleCallback(context.Background(), entities.ProviderGoogle, "code-1", "tenant-1"))

	require.NoError(t, uc.Disconnect(context.Background(), "tenant-1", entities.ProviderGoogle))
	assert.Equal(t, 0, store.count())

	err := uc.Disconnect(context.Background(), "tenant-1", entities.ProviderGoogle)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}
