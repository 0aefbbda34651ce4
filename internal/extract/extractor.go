// Package extract writes every visual config of a report archive to its own
// template file.
package extract

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pbi-visuals/templates/internal/config"
	"github.com/pbi-visuals/templates/internal/logging"
	"github.com/pbi-visuals/templates/internal/models"
	"github.com/pbi-visuals/templates/internal/parser"
	"github.com/pbi-visuals/templates/internal/storage"
)

// Extractor extracts visual templates from report archives.
type Extractor struct {
	cfg     *config.AppConfig
	decoder models.ConfigDecoder
	logger  *zap.Logger
}

// NewExtractor creates an extractor using the global decode registry.
func NewExtractor(cfg *config.AppConfig, logger *zap.Logger) *Extractor {
	return &Extractor{
		cfg:     cfg,
		decoder: parser.GetGlobalRegistry(),
		logger:  logging.OrNop(logger),
	}
}

// Extract reads the archive at archivePath and writes one file per decodable
// visual config. Nothing is written unless the archive and its layout could
// be read.
func (e *Extractor) Extract(archivePath string) (*models.ExtractResult, error) {
	archive, err := parser.OpenArchive(archivePath)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	e.logger.Info("processing archive", zap.String("file", filepath.Base(archivePath)))

	layout, err := archive.ReadLayout(e.cfg.Archive.LayoutEntry)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewLocalStore(e.cfg.GetOutputRoot(archivePath), e.cfg.Extract.Indent)
	if err != nil {
		return nil, err
	}

	result := &models.ExtractResult{
		ArchivePath: archivePath,
		OutputRoot:  store.Root(),
		Pages:       len(layout.Sections),
		Templates:   make([]*models.TemplateFile, 0),
		Skipped:     make([]models.SkippedVisual, 0),
	}

	index := 0
	for si, section := range layout.Sections {
		if section == nil {
			e.logger.Debug("skipping null section", zap.Int("section", si))
			continue
		}
		pageDir := PageDirName(section.Name)
		if _, err := store.EnsureDir(pageDir); err != nil {
			return result, err
		}

		e.logger.Info("extracting visuals from page",
			zap.String("page", section.DisplayName),
			zap.String("id", section.Name))

		for i, container := range section.VisualContainers {
			if container == nil {
				e.logger.Debug("skipping null container", zap.String("page", section.Name), zap.Int("container", i))
				continue
			}
			if container.Config == nil || container.Config.IsEmpty() {
				e.logger.Debug("container has no config", zap.String("page", section.Name), zap.Int("container", i))
				continue
			}

			visual, err := container.Config.Decode(e.decoder)
			if err != nil {
				e.logger.Warn("skipping visual due to unparsable config string",
					zap.String("page", section.Name),
					zap.Int("container", i),
					zap.Error(err))
				result.Skipped = append(result.Skipped, models.SkippedVisual{
					PageID: section.Name,
					Index:  i,
					Reason: err.Error(),
				})
				continue
			}

			visualType := visual.VisualType()
			title := visual.Title(e.cfg.Extract.DefaultTitle)
			name := FileName(visualType, title, e.cfg.Extract.DefaultTitle, index)

			info, err := store.SaveJSON(pageDir, name, visual)
			if err != nil {
				return result, fmt.Errorf("saving template for container %d on page %s: %w", i, section.Name, err)
			}
			index++

			result.Templates = append(result.Templates, &models.TemplateFile{
				FileInfo:   *info,
				PageID:     section.Name,
				VisualType: visualType,
				Title:      title,
			})
			e.logger.Info("saved template",
				zap.String("title", title),
				zap.String("type", visualType),
				zap.String("file", name))
		}
	}

	return result, nil
}
