package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"reviewsense/config"
	"reviewsense/internal/adapter/analyzer"
	"reviewsense/internal/adapter/aspect"
	"reviewsense/internal/adapter/cache"
	"reviewsense/internal/adapter/model"
	"reviewsense/internal/adapter/store"
	"reviewsense/internal/port"
	"reviewsense/internal/usecase"
)

// resolvePath makes relative config paths relative to the root directory.
func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// loadModel reads the artifacts from the configured bundle, the configured
// directory, or the model directory next to the executable, in that order.
func loadModel(cfg *config.Config, root string) (*model.Model, error) {
	if bundle := resolvePath(root, cfg.Model.Bundle); bundle != "" {
		st, err := store.OpenBundleReadOnly(bundle)
		if err != nil {
			return nil, err
		}
		defer st.Close()

		classifierData, vectorizerData, err := st.Artifacts()
		if err != nil {
			return nil, fmt.Errorf("failed to read bundle %s: %w", bundle, err)
		}
		m, err := model.Parse(classifierData, vectorizerData)
		if err != nil {
			return nil, fmt.Errorf("failed to load bundle %s: %w", bundle, err)
		}
		slog.Info("[Model] Loaded bundle",
			slog.String("path", bundle),
			slog.String("fingerprint", m.Info.Fingerprint))
		return m, nil
	}

	dir := resolvePath(root, cfg.Model.Dir)
	if dir == "" {
		dir = model.DefaultDir()
	}
	m, err := model.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load model from %s: %w", dir, err)
	}
	slog.Info("[Model] Loaded artifacts",
		slog.String("dir", dir),
		slog.String("classifier", m.Info.ClassifierKind),
		slog.Int("features", m.Info.Features),
		slog.String("fingerprint", m.Info.Fingerprint))
	return m, nil
}

// newScoreCache builds the configured cache backend. A nil cache means
// caching is off. The returned func releases backend connections.
func newScoreCache(cfg *config.Config, fingerprint string) (port.ScoreCache, func(), error) {
	noop := func() {}

	switch strings.ToLower(cfg.Cache.Backend) {
	case "", "none":
		return nil, noop, nil
	case "memory":
		return cache.NewScoreCache(fingerprint, cfg.Cache.MaxSize, cfg.Cache.TTL), noop, nil
	case "valkey":
		vc, err := cache.NewValkeyScoreCache(fingerprint, cache.ValkeyOptions{
			Address:  cfg.Cache.Valkey.Address,
			Password: cfg.Cache.Valkey.Password,
			TLS:      cfg.Cache.Valkey.TLS,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			return nil, noop, err
		}
		return vc, vc.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
	}
}

// buildAnalyzer assembles the process-wide analysis pipeline.
func buildAnalyzer(cfg *config.Config, m *model.Model) (*usecase.AnalyzeUseCase, func(), error) {
	stemmer, err := analyzer.NewStemmer(cfg.Analysis.Stemmer)
	if err != nil {
		return nil, nil, err
	}

	matcher, err := aspect.NewMatcherWithKeywords(cfg.Aspects.Keywords)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid aspect keywords: %w", err)
	}

	var scorer port.SentimentScorer = usecase.NewScorer(m.Vectorizer, m.Classifier)

	scoreCache, closeCache, err := newScoreCache(cfg, m.Info.Fingerprint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create score cache: %w", err)
	}
	if scoreCache != nil {
		scorer = cache.NewCachedScorer(scorer, scoreCache)
	}

	return usecase.NewAnalyzeUseCase(analyzer.NewNormalizer(stemmer), matcher, scorer), closeCache, nil
}
