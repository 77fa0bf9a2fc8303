package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Species is one selectable fish or shrimp name.
type Species struct {
	Name   string `mapstructure:"name" json:"name"`
	Bangla string `mapstructure:"bangla" json:"bangla"`
}

// Category is a size grade offered for fish lines.
type Category struct {
	Name   string `mapstructure:"name" json:"name"`
	Bangla string `mapstructure:"bangla" json:"bangla"`
}

// Catalog lists the names offered on the entry form.
type Catalog struct {
	Fish       []Species  `mapstructure:"fish" json:"fish"`
	Shrimp     []Species  `mapstructure:"shrimp" json:"shrimp"`
	Categories []Category `mapstructure:"categories" json:"categories"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		Fish: []Species{
			{Name: "Rui", Bangla: "রুই"},
			{Name: "Katla", Bangla: "কাতলা"},
			{Name: "Mrigel", Bangla: "মৃগেল"},
			{Name: "Silver Carp", Bangla: "সিলভার কার্প"},
			{Name: "Grass Carp", Bangla: "গ্রাস কার্প"},
			{Name: "Pangas", Bangla: "পাঙ্গাস"},
			{Name: "Tilapia", Bangla: "তেলাপিয়া"},
			{Name: "Boal", Bangla: "বোয়াল"},
			{Name: "Ayre", Bangla: "আইড়"},
			{Name: "Chitol", Bangla: "চিতল"},
			{Name: "Other", Bangla: "অন্যান্য"},
		},
		Shrimp: []Species{
			{Name: "Bagda", Bangla: "বাগদা"},
			{Name: "Golda", Bangla: "গলদা"},
			{Name: "Venami", Bangla: "ভেনামি"},
			{Name: "Horina", Bangla: "হরিণা"},
			{Name: "Caka Cingi", Bangla: "চাকা চিংড়ি"},
		},
		Categories: []Category{
			{Name: "Small", Bangla: "ছোট"},
			{Name: "Medium", Bangla: "মাঝারি"},
			{Name: "Large", Bangla: "বড়"},
			{Name: "Extra Large", Bangla: "বিশাল"},
		},
	}
}

type CatalogHolder struct {
	current atomic.Value // holds Catalog
}

// NewCatalogHolder reads catalog.yml and keeps it current while the file changes.
// A missing file falls back to DefaultCatalog.
func NewCatalogHolder(log *zap.Logger) (*CatalogHolder, error) {
	v := viper.New()

	v.SetConfigName("catalog")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/arot/config")
	v.AddConfigPath("/etc/arot")
	v.AddConfigPath(".")

	v.SetEnvPrefix("AROT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fromFile := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fromFile = false
	}

	cfg := DefaultCatalog()
	if fromFile {
		if err := v.UnmarshalKey("catalog", &cfg); err != nil {
			return nil, err
		}
	}
	if err := ValidateCatalog(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticCatalogHolder(cfg)
	if !fromFile {
		return holder, nil
	}

	log = log.Named("config.catalog")
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated Catalog
		if err := v.UnmarshalKey("catalog", &updated); err != nil {
			log.Warn("catalog reload failed", zap.Error(err))
			return
		}
		if err := ValidateCatalog(updated); err != nil {
			log.Warn("invalid catalog ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("catalog reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// NewStaticCatalogHolder wraps a fixed catalog.
func NewStaticCatalogHolder(cfg Catalog) *CatalogHolder {
	holder := &CatalogHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *CatalogHolder) Get() Catalog {
	return h.current.Load().(Catalog)
}

func ValidateCatalog(cfg Catalog) error {
	if len(cfg.Fish) == 0 && len(cfg.Shrimp) == 0 {
		return errors.New("catalog.fish and catalog.shrimp cannot both be empty")
	}
	if len(cfg.Categories) == 0 {
		return errors.New("catalog.categories cannot be empty")
	}
	seen := make(map[string]struct{})
	for _, s := range append(append([]Species{}, cfg.Fish...), cfg.Shrimp...) {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return errors.New("catalog species name cannot be empty")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("catalog species %q listed twice", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
