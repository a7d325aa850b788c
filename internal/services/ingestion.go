package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"social-casino-backend/internal/models"
)

// CatalogEntry is one game as published by an upstream provider.
type CatalogEntry struct {
	ID         string
	Name       string
	Category   string
	RTP        float64
	Volatility models.Volatility
	Thumbnail  string
}

type CatalogProvider interface {
	Name() string
	FetchCatalog(ctx context.Context) ([]CatalogEntry, error)
}

// GameMetadata is the generated part of an ingested game.
type GameMetadata struct {
	MathModel     map[string]any
	AssetManifest map[string]any
	FeatureSet    []string
}

// MetadataGenerator enriches a catalog entry, typically by calling a
// generative model. Failures are never fatal to ingestion.
type MetadataGenerator interface {
	Generate(ctx context.Context, provider string, entry CatalogEntry) (GameMetadata, error)
}

// FallbackMetadata derives metadata from the entry alone.
func FallbackMetadata(entry CatalogEntry) GameMetadata {
	reels, rows := 5, 3
	if entry.Category != "slots" {
		reels, rows = 1, 1
	}
	return GameMetadata{
		MathModel: map[string]any{
			"rtp":        entry.RTP,
			"volatility": string(entry.Volatility),
			"reels":      reels,
			"rows":       rows,
			"generated":  false,
		},
		AssetManifest: map[string]any{
			"thumbnail": entry.Thumbnail,
		},
		FeatureSet: []string{"base-game"},
	}
}

// StaticMetadataGenerator produces deterministic metadata without any remote
// call. It is the default when no model client is configured.
type StaticMetadataGenerator struct{}

func (StaticMetadataGenerator) Generate(ctx context.Context, provider string, entry CatalogEntry) (GameMetadata, error) {
	if err := ctx.Err(); err != nil {
		return GameMetadata{}, err
	}
	md := FallbackMetadata(entry)
	md.MathModel["generated"] = true
	features := []string{"base-game", "free-spins"}
	switch entry.Volatility {
	case models.VolatilityHigh:
		features = append(features, "multiplier-wilds", "bonus-buy")
	case models.VolatilityMedium:
		features = append(features, "expanding-wilds")
	}
	md.FeatureSet = features
	md.AssetManifest["theme"] = strings.ToLower(strings.ReplaceAll(entry.Name, " ", "-"))
	md.AssetManifest["provider"] = provider
	return md, nil
}

// StaticProvider serves a fixed catalog in place of a provider feed.
type StaticProvider struct {
	ProviderName string
	Entries      []CatalogEntry
	Err          error
}

func (p *StaticProvider) Name() string {
	return p.ProviderName
}

func (p *StaticProvider) FetchCatalog(ctx context.Context) ([]CatalogEntry, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return append([]CatalogEntry(nil), p.Entries...), nil
}

// DefaultProviders returns the mocked provider feeds.
func DefaultProviders() []CatalogProvider {
	return []CatalogProvider{
		&StaticProvider{
			ProviderName: "Pixel Forge",
			Entries: []CatalogEntry{
				{ID: "game_neon_nights", Name: "Neon Nights", Category: "slots", RTP: 96.2, Volatility: models.VolatilityMedium, Thumbnail: "/assets/games/neon-nights.png"},
				{ID: "game_cyber_heist", Name: "Cyber Heist", Category: "slots", RTP: 96.7, Volatility: models.VolatilityHigh, Thumbnail: "/assets/games/cyber-heist.png"},
			},
		},
		&StaticProvider{
			ProviderName: "Reelcraft",
			Entries: []CatalogEntry{
				{ID: "game_pharaoh_gold", Name: "Pharaoh's Gold", Category: "slots", RTP: 95.9, Volatility: models.VolatilityHigh, Thumbnail: "/assets/games/pharaoh-gold.png"},
				{ID: "game_mini_roulette", Name: "Mini Roulette", Category: "table", RTP: 97.3, Volatility: models.VolatilityLow, Thumbnail: "/assets/games/mini-roulette.png"},
			},
		},
	}
}

// VersionHash identifies the upstream revision of an entry.
func VersionHash(provider string, e CatalogEntry) string {
	h := sha256.New()
	for _, part := range []string{
		provider, e.ID, e.Name, e.Category,
		strconv.FormatFloat(e.RTP, 'f', -1, 64),
		string(e.Volatility), e.Thumbnail,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

type Ingestor struct {
	store     *Store
	providers []CatalogProvider
	generator MetadataGenerator
	timeout   time.Duration
}

func NewIngestor(store *Store, generator MetadataGenerator, providers ...CatalogProvider) *Ingestor {
	if generator == nil {
		generator = StaticMetadataGenerator{}
	}
	return &Ingestor{
		store:     store,
		providers: providers,
		generator: generator,
		timeout:   10 * time.Second,
	}
}

type providerRun struct {
	games []models.Game
	log   models.IngestionLog
}

// Run pulls every provider catalog and upserts entries whose version hash
// changed. One ingestion log is written per provider.
func (in *Ingestor) Run(ctx context.Context, sess *Session) ([]models.IngestionLog, error) {
	if _, err := sess.requireAdmin(); err != nil {
		return nil, err
	}

	known := make(map[string]string)
	for _, g := range in.store.Games() {
		known[g.ID] = g.VersionHash
	}
	useGenerator := in.store.Settings().EnableAIIngestion

	runs := make([]providerRun, len(in.providers))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range in.providers {
		g.Go(func() error {
			runs[i] = in.ingestProvider(gctx, p, known, useGenerator)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var changed []models.Game
	for _, r := range runs {
		changed = append(changed, r.games...)
	}
	if len(changed) > 0 {
		if _, _, err := sess.AdminUpsertGames(ctx, changed); err != nil {
			return nil, err
		}
	}

	now := in.store.clock.Now()
	logs := make([]models.IngestionLog, len(runs))
	for i, r := range runs {
		r.log.ID = models.NewID("ingest")
		r.log.CreatedAt = now
		logs[i] = r.log
	}
	in.store.mu.Lock()
	in.store.ingestion = append(in.store.ingestion, logs...)
	in.store.mu.Unlock()

	return logs, nil
}

func (in *Ingestor) ingestProvider(ctx context.Context, p CatalogProvider, known map[string]string, useGenerator bool) providerRun {
	run := providerRun{log: models.IngestionLog{Provider: p.Name()}}
	logger := in.store.logger.With(slog.String("provider", p.Name()))

	fetchCtx, cancel := context.WithTimeout(ctx, in.timeout)
	defer cancel()
	entries, err := p.FetchCatalog(fetchCtx)
	if err != nil {
		logger.Warn("catalog fetch failed", slog.String("error", err.Error()))
		run.log.Status = models.IngestionFailed
		run.log.Message = err.Error()
		return run
	}
	run.log.Fetched = len(entries)

	for _, e := range entries {
		hash := VersionHash(p.Name(), e)
		if known[e.ID] == hash {
			run.log.Skipped++
			continue
		}

		md, fellBack := in.metadata(ctx, p.Name(), e, useGenerator)
		if fellBack {
			run.log.Fallbacks++
		}
		run.games = append(run.games, models.Game{
			ID:            e.ID,
			Name:          e.Name,
			Provider:      p.Name(),
			Category:      e.Category,
			RTP:           e.RTP,
			Volatility:    e.Volatility,
			Thumbnail:     e.Thumbnail,
			IsExternal:    true,
			VersionHash:   hash,
			MathModel:     md.MathModel,
			AssetManifest: md.AssetManifest,
			FeatureSet:    md.FeatureSet,
		})
		run.log.Updated++
	}

	run.log.Status = models.IngestionSuccess
	if run.log.Fallbacks > 0 && useGenerator {
		run.log.Status = models.IngestionPartial
		run.log.Message = fmt.Sprintf("%d entries used fallback metadata", run.log.Fallbacks)
	}
	logger.Info("catalog ingested",
		slog.Int("fetched", run.log.Fetched),
		slog.Int("updated", run.log.Updated),
		slog.Int("skipped", run.log.Skipped))
	return run
}

func (in *Ingestor) metadata(ctx context.Context, provider string, e CatalogEntry, useGenerator bool) (GameMetadata, bool) {
	if !useGenerator {
		return FallbackMetadata(e), true
	}
	md, err := in.generator.Generate(ctx, provider, e)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			in.store.logger.Warn("metadata generation failed",
				slog.String("provider", provider),
				slog.String("game_id", e.ID),
				slog.String("error", err.Error()))
		}
		return FallbackMetadata(e), true
	}
	return md, false
}
