package hrf

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pivolan/hrf_analyzer/domain/models"
	"go.uber.org/zap"
)

var (
	DefaultConditions = []string{"before", "after"}
	DefaultSpecies    = []string{"hbo", "hbr", "hbt"}
)

// Dataset maps condition -> species -> table.
type Dataset map[string]map[string]*models.Table

// Get returns nil when the pair was not loaded.
func (d Dataset) Get(condition, species string) *models.Table {
	if bySpecies, ok := d[condition]; ok {
		return bySpecies[species]
	}
	return nil
}

// Len counts loaded tables.
func (d Dataset) Len() int {
	n := 0
	for _, bySpecies := range d {
		n += len(bySpecies)
	}
	return n
}

// DatasetFileName follows the export naming: before_hrf_hbo.csv.
func DatasetFileName(condition, species string) string {
	return fmt.Sprintf("%s_hrf_%s.csv", condition, species)
}

// LoadDataset reads every condition/species file under basePath.
// Missing files are logged as warnings and other failures as errors; both are
// skipped so the caller gets whatever could be loaded.
func LoadDataset(basePath string, conditions, species []string, opts *LoadOptions, log *zap.Logger) Dataset {
	if log == nil {
		log = zap.NewNop()
	}
	if abs, err := filepath.Abs(basePath); err == nil {
		log.Info("searching for files", zap.String("dir", abs))
	}

	data := make(Dataset, len(conditions))
	for _, condition := range conditions {
		data[condition] = make(map[string]*models.Table, len(species))
		for _, sp := range species {
			fileName := DatasetFileName(condition, sp)
			fullPath := filepath.Join(basePath, fileName)

			table, err := LoadTable(fullPath, opts)
			switch {
			case errors.Is(err, ErrFileNotFound):
				log.Warn("file not found, confirm the file name and location", zap.String("path", fullPath))
				continue
			case err != nil:
				log.Error("error loading file", zap.String("file", fileName), zap.Error(err))
				continue
			}
			data[condition][sp] = table
			log.Info("successfully loaded", zap.String("file", fileName), zap.Int("rows", table.RowCount()))
		}
	}
	return data
}
