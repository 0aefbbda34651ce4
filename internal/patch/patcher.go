// Package patch applies a visual template to matching visuals of an
// unpacked report.
package patch

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pbi-visuals/templates/internal/config"
	"github.com/pbi-visuals/templates/internal/logging"
	"github.com/pbi-visuals/templates/internal/models"
	"github.com/pbi-visuals/templates/internal/parser"
	"github.com/pbi-visuals/templates/internal/storage"
)

// Options controls a single patch run.
type Options struct {
	// DryRun computes the changes and their diffs without writing.
	DryRun bool
}

// Patcher replaces visual configs in report layouts.
type Patcher struct {
	cfg     *config.AppConfig
	decoder models.ConfigDecoder
	logger  *zap.Logger
}

// NewPatcher creates a patcher using the global decode registry.
func NewPatcher(cfg *config.AppConfig, logger *zap.Logger) *Patcher {
	return &Patcher{
		cfg:     cfg,
		decoder: parser.GetGlobalRegistry(),
		logger:  logging.OrNop(logger),
	}
}

// Patch applies the template at templatePath to every visual in reportDir
// selected by match. The layout file is rewritten only when at least one
// visual was fixed and opts.DryRun is false.
func (p *Patcher) Patch(reportDir, templatePath, match string, opts Options) (*models.PatchResult, error) {
	reportPath := p.cfg.GetReportPath(reportDir)

	layout, err := parser.ReadReportLayout(reportPath)
	if err != nil {
		return nil, err
	}

	template, err := parser.LoadTemplate(templatePath)
	if err != nil {
		return nil, err
	}

	result := &models.PatchResult{
		ReportPath: reportPath,
		Match:      match,
		Visuals:    make([]models.PatchedVisual, 0),
		DryRun:     opts.DryRun,
	}

	for si, section := range layout.Sections {
		if section == nil {
			p.logger.Debug("skipping null section", zap.Int("section", si))
			continue
		}
		for i, container := range section.VisualContainers {
			if container == nil {
				p.logger.Debug("skipping null container", zap.String("page", section.Name), zap.Int("container", i))
				continue
			}
			if container.Config == nil || container.Config.IsEmpty() {
				continue
			}

			current, err := container.Config.Decode(p.decoder)
			if err != nil {
				result.Skipped++
				p.logger.Debug("skipping container with unparsable config",
					zap.String("page", section.Name),
					zap.Int("container", i))
				continue
			}

			if !Matches(current, match) {
				continue
			}

			visual := models.PatchedVisual{
				PageID:     section.Name,
				Index:      i,
				VisualType: current.VisualType(),
				Title:      current.Title(""),
			}
			p.logger.Info("found visual, applying template",
				zap.String("title", visual.Title),
				zap.String("type", visual.VisualType),
				zap.String("page", section.Name))

			merged, err := Merge(template, current, p.cfg.Patch.PreservedFields)
			if err != nil {
				return nil, fmt.Errorf("merging template into %s container %d: %w", section.Name, i, err)
			}

			if opts.DryRun {
				visual.Diff, err = Diff(current, merged)
				if err != nil {
					return nil, err
				}
			}

			if err := container.Config.Replace(merged); err != nil {
				return nil, fmt.Errorf("encoding config for %s container %d: %w", section.Name, i, err)
			}
			result.Visuals = append(result.Visuals, visual)
		}
	}

	if result.NoMatch() || opts.DryRun {
		return result, nil
	}

	data, err := models.EncodeIndent(layout, p.cfg.Patch.Indent)
	if err != nil {
		return nil, fmt.Errorf("encoding report layout: %w", err)
	}
	if err := storage.ReplaceFile(reportPath, data); err != nil {
		return nil, fmt.Errorf("saving modified report layout: %w", err)
	}
	result.Written = true

	return result, nil
}
