package services_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"social-casino-backend/internal/models"
	"social-casino-backend/internal/services"
)

type failingGenerator struct {
	calls atomic.Int32
}

func (g *failingGenerator) Generate(ctx context.Context, provider string, entry services.CatalogEntry) (services.GameMetadata, error) {
	g.calls.Add(1)
	return services.GameMetadata{}, errors.New("model unavailable")
}

func newIngestionStore(t *testing.T) (*services.Store, *services.Session) {
	t.Helper()
	store, err := services.NewStore(services.NewMemoryService(), services.StoreOptions{
		DemoPasswords: []string{"password"},
		PasswordCost:  bcrypt.MinCost,
	})
	require.NoError(t, err)
	admin, err := store.Login(t.Context(), services.AdminEmail, "password")
	require.NoError(t, err)
	return store, admin
}

func TestIngestionUpsertsChangedEntries(t *testing.T) {
	store, admin := newIngestionStore(t)
	before := len(store.Games())
	ingestor := services.NewIngestor(store, nil, services.DefaultProviders()...)

	logs, err := ingestor.Run(t.Context(), admin)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, models.IngestionSuccess, l.Status)
		assert.Equal(t, 2, l.Fetched)
		assert.Equal(t, 2, l.Updated)
	}

	// game_neon_nights already exists in the seed catalog
	assert.Len(t, store.Games(), before+3)
	g, err := store.Game("game_cyber_heist")
	require.NoError(t, err)
	assert.True(t, g.IsExternal)
	assert.NotEmpty(t, g.VersionHash)
	assert.Equal(t, true, g.MathModel["generated"])
	assert.Contains(t, g.FeatureSet, "bonus-buy")

	logs, err = ingestor.Run(t.Context(), admin)
	require.NoError(t, err)
	for _, l := range logs {
		assert.Equal(t, 2, l.Skipped, "unchanged entries are skipped")
		assert.Zero(t, l.Updated)
	}
	assert.Len(t, store.Games(), before+3)

	stored, err := admin.AdminIngestionLogs()
	require.NoError(t, err)
	assert.Len(t, stored, 4)
}

func TestIngestionFallsBackWhenGeneratorFails(t *testing.T) {
	store, admin := newIngestionStore(t)
	gen := &failingGenerator{}
	ingestor := services.NewIngestor(store, gen, services.DefaultProviders()...)

	logs, err := ingestor.Run(t.Context(), admin)
	require.NoError(t, err)
	for _, l := range logs {
		assert.Equal(t, models.IngestionPartial, l.Status)
		assert.Equal(t, 2, l.Fallbacks)
	}
	assert.Equal(t, int32(4), gen.calls.Load())

	g, err := store.Game("game_pharaoh_gold")
	require.NoError(t, err)
	assert.Equal(t, false, g.MathModel["generated"])
}

func TestIngestionSkipsGeneratorWhenDisabled(t *testing.T) {
	store, admin := newIngestionStore(t)
	off := false
	_, err := admin.AdminUpdateSettings(t.Context(), models.SettingsPatch{EnableAIIngestion: &off})
	require.NoError(t, err)

	gen := &failingGenerator{}
	logs, err := services.NewIngestor(store, gen, services.DefaultProviders()...).Run(t.Context(), admin)
	require.NoError(t, err)
	for _, l := range logs {
		assert.Equal(t, models.IngestionSuccess, l.Status)
		assert.Equal(t, 2, l.Fallbacks)
	}
	assert.Zero(t, gen.calls.Load())
}

func TestIngestionRecordsProviderFailure(t *testing.T) {
	store, admin := newIngestionStore(t)
	broken := &services.StaticProvider{ProviderName: "Broken Feed", Err: errors.New("503 from upstream")}
	providers := append(services.DefaultProviders()[:1], broken)

	logs, err := services.NewIngestor(store, nil, providers...).Run(t.Context(), admin)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.IngestionSuccess, logs[0].Status)
	assert.Equal(t, models.IngestionFailed, logs[1].Status)
	assert.Contains(t, logs[1].Message, "503")
}

func TestIngestionRequiresAdmin(t *testing.T) {
	store, _ := newIngestionStore(t)
	player, err := store.Signup(t.Context(), "p@example.com", "Pla Yer", "")
	require.NoError(t, err)

	_, err = services.NewIngestor(store, nil, services.DefaultProviders()...).Run(t.Context(), player)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestVersionHashTracksUpstreamFields(t *testing.T) {
	e := services.CatalogEntry{ID: "g", Name: "Game", Category: "slots", RTP: 96, Volatility: models.VolatilityLow}
	h := services.VersionHash("P", e)
	assert.Equal(t, h, services.VersionHash("P", e))

	e.RTP = 95
	assert.NotEqual(t, h, services.VersionHash("P", e))
	assert.NotEqual(t, h, services.VersionHash("Q", services.CatalogEntry{ID: "g", Name: "Game", Category: "slots", RTP: 96, Volatility: models.VolatilityLow}))
}
