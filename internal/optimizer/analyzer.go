// Package optimizer runs the resume optimization pipeline and the job
// runners that execute it in the background
package optimizer

import (
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/jdextract"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/scoring"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/watch"
)

// Analyzer bundles the segmenter, extractor and weights configured for a deployment
type Analyzer struct {
	Segmenter *sections.Segmenter
	Extractor *jdextract.Extractor
	Weights   scoring.Weights
}

// NewAnalyzer builds an analyzer from configuration, loading the override
// heading and vocabulary files when set
func NewAnalyzer(cfg config.AnalysisConfig) (*Analyzer, error) {
	seg := sections.Default()
	if cfg.SectionsFile != "" {
		table, err := sections.LoadHeadingTable(cfg.SectionsFile)
		if err != nil {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to load section headings", err).
				WithContext("file", cfg.SectionsFile)
		}
		seg = sections.NewSegmenter(table)
	}

	opts := jdextract.Options{
		SalienceWindow:     cfg.SalienceWindow,
		FrequencyThreshold: cfg.FrequencyThreshold,
	}
	vocab := jdextract.DefaultVocabulary()
	if cfg.VocabularyFile != "" {
		v, err := jdextract.LoadVocabulary(cfg.VocabularyFile)
		if err != nil {
			return nil, errors.NewConfigError(errors.ErrCodeVocabularyFailed, "failed to load vocabulary", err).
				WithContext("file", cfg.VocabularyFile)
		}
		vocab = v
	}
	ext, err := jdextract.New(vocab, opts)
	if err != nil {
		return nil, err
	}

	return &Analyzer{Segmenter: seg, Extractor: ext, Weights: WeightsFromConfig(cfg)}, nil
}

// ExtractJD strips noise sections such as benefits and EEO statements from a
// raw job description and extracts what remains
func (a *Analyzer) ExtractJD(raw string) (*jdextract.Extraction, error) {
	return a.Extractor.Extract(a.Extractor.Clean(raw))
}

// WeightsFromConfig maps analysis configuration onto scoring weights.
// Unset weights fall back to the defaults
func WeightsFromConfig(cfg config.AnalysisConfig) scoring.Weights {
	w := scoring.DefaultWeights()
	if cfg.Weights.Primary > 0 {
		w.Primary = cfg.Weights.Primary
	}
	if cfg.Weights.Secondary > 0 {
		w.Secondary = cfg.Weights.Secondary
	}
	if cfg.Weights.Hard >= 0 {
		w.Hard = cfg.Weights.Hard
	}
	if cfg.Weights.Soft >= 0 {
		w.Soft = cfg.Weights.Soft
	}
	if cfg.NeutralScore > 0 {
		w.Neutral = cfg.NeutralScore
	}
	return w
}

// WatchVocabulary reloads the vocabulary file into the extractor whenever it
// changes. It returns nil when no override file or watching is configured.
// A file that fails to parse is logged and the previous vocabulary stays
func (a *Analyzer) WatchVocabulary(cfg config.AnalysisConfig, logger *errors.Logger) (*watch.FileWatcher, error) {
	if !cfg.WatchVocabulary || cfg.VocabularyFile == "" {
		return nil, nil
	}

	reload := func() {
		v, err := jdextract.LoadVocabulary(cfg.VocabularyFile)
		if err == nil {
			err = a.Extractor.SetVocabulary(v)
		}
		if err != nil {
			logger.LogError(err, "Vocabulary reload failed, keeping previous vocabulary",
				"file", cfg.VocabularyFile)
			return
		}
		logger.Info("Vocabulary reloaded", "file", cfg.VocabularyFile)
	}

	fw, err := watch.NewFileWatcher([]string{cfg.VocabularyFile}, watch.DefaultDebounce, reload, logger)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeVocabularyFailed, "failed to watch vocabulary", err)
	}
	if err := fw.Start(); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeVocabularyFailed, "failed to watch vocabulary", err)
	}
	return fw, nil
}
