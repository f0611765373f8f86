package prices

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// CatalogEntry describes one tradable gold purity grade.
type CatalogEntry struct {
	Name      string          // e.g. "24K Gold"
	Purity    int             // carats, 1..24
	BasePrice decimal.Decimal // reference price used by the simulated feed
}

type catalogFile struct {
	GoldTypes []struct {
		Name      string `yaml:"name"`
		Purity    int    `yaml:"purity"`
		BasePrice string `yaml:"base_price"`
	} `yaml:"gold_types"`
}

// LoadCatalog reads the gold-type catalog from a YAML file.
func LoadCatalog(catalogPath string) ([]CatalogEntry, error) {
	var resolved string
	if filepath.IsAbs(catalogPath) {
		resolved = catalogPath
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		resolved = filepath.Join(wd, catalogPath)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", catalogPath, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", catalogPath, err)
	}
	if len(file.GoldTypes) == 0 {
		return nil, fmt.Errorf("%s contains no gold types", catalogPath)
	}

	entries := make([]CatalogEntry, 0, len(file.GoldTypes))
	for i, gt := range file.GoldTypes {
		if gt.Name == "" {
			return nil, fmt.Errorf("gold type at index %d missing name", i)
		}
		if gt.Purity <= 0 || gt.Purity > 24 {
			return nil, fmt.Errorf("gold type %q has invalid purity %d", gt.Name, gt.Purity)
		}
		basePrice, err := decimal.NewFromString(gt.BasePrice)
		if err != nil {
			return nil, fmt.Errorf("gold type %q has invalid base price %q: %w", gt.Name, gt.BasePrice, err)
		}
		if !basePrice.IsPositive() {
			return nil, fmt.Errorf("gold type %q base price must be positive", gt.Name)
		}
		entries = append(entries, CatalogEntry{Name: gt.Name, Purity: gt.Purity, BasePrice: basePrice})
	}

	return entries, nil
}
