package screen

import (
	"errors"
	"flag"
	"strings"
	"time"

	"github.com/youruser/iconscreen/internal/compose"
	"github.com/youruser/iconscreen/internal/config"
	imagepkg "github.com/youruser/iconscreen/internal/image"
)

// CaptionAsk prompts on the terminal whether to caption icons with their
// title.
const CaptionAsk = "ask"

// Config holds configuration for a batch run. Environment variables supply
// the defaults and flags override them.
type Config struct {
	BackgroundDir string        `env:"SCREEN_BACKGROUND_DIR"`
	Background    string        `env:"SCREEN_BACKGROUND"`
	CatalogPath   string        `env:"SCREEN_CATALOG"`
	DatasetDir    string        `env:"SCREEN_DATASET_DIR"`
	OutputDir     string        `env:"SCREEN_OUTPUT_DIR" envDefault:"output"`
	Copies        int           `env:"SCREEN_COPIES" envDefault:"2"`
	FontPath      string        `env:"SCREEN_FONT"`
	FontSize      float64       `env:"SCREEN_FONT_SIZE" envDefault:"40"`
	Captions      string        `env:"SCREEN_CAPTIONS" envDefault:"ask"`
	CaptionText   string        `env:"SCREEN_CAPTION_TEXT" envDefault:"app"`
	CaptionColor  string        `env:"SCREEN_CAPTION_COLOR" envDefault:"#ffffff"`
	Match         string        `env:"SCREEN_MATCH"`
	Format        string        `env:"SCREEN_FORMAT" envDefault:"jpg"`
	MaxIcons      int           `env:"SCREEN_MAX_ICONS" envDefault:"24"`
	Seed          int64         `env:"SCREEN_SEED"`
	FetchTimeout  time.Duration `env:"SCREEN_FETCH_TIMEOUT"`
}

// ParseConfig reads SCREEN_* environment variables, then CLI flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.BackgroundDir, "backgrounds", cfg.BackgroundDir, "directory of background images (png, jpg, jpeg)")
	fs.StringVar(&cfg.Background, "background", cfg.Background, "single background image, instead of -backgrounds")
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "catalog JSON file")
	fs.StringVar(&cfg.DatasetDir, "dataset", cfg.DatasetDir, "directory of icon images, instead of -catalog")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "output directory")
	fs.IntVar(&cfg.Copies, "copies", cfg.Copies, "composites generated per background")
	fs.StringVar(&cfg.FontPath, "font", cfg.FontPath, "caption font file; the built-in font is used when empty or unreadable")
	fs.Float64Var(&cfg.FontSize, "font-size", cfg.FontSize, "caption font size on the 1170px reference width")
	fs.StringVar(&cfg.Captions, "captions", cfg.Captions, "caption mode: ask, none, literal or title")
	fs.StringVar(&cfg.CaptionText, "caption-text", cfg.CaptionText, "text drawn in literal caption mode")
	fs.StringVar(&cfg.CaptionColor, "caption-color", cfg.CaptionColor, `caption colour as #rrggbb, or "auto"`)
	fs.StringVar(&cfg.Match, "match", cfg.Match, "only use catalog entries whose title or description contain these words")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "composite image format: jpg or png")
	fs.IntVar(&cfg.MaxIcons, "max-icons", cfg.MaxIcons, "maximum icons per composite")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed; 0 picks one from the clock")
	fs.DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "timeout for remote icons and backgrounds; 0 waits forever")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration describes a runnable batch.
func (c Config) Validate() error {
	hasDir, hasFile := strings.TrimSpace(c.BackgroundDir) != "", strings.TrimSpace(c.Background) != ""
	if hasDir == hasFile {
		return errors.New("exactly one of backgrounds or background is required")
	}
	hasCatalog, hasDataset := strings.TrimSpace(c.CatalogPath) != "", strings.TrimSpace(c.DatasetDir) != ""
	if hasCatalog == hasDataset {
		return errors.New("exactly one of catalog or dataset is required")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("out is required")
	}
	if c.Copies < 1 {
		return errors.New("copies must be at least 1")
	}
	if c.FontSize <= 0 {
		return errors.New("font-size must be positive")
	}
	if c.MaxIcons < 1 {
		return errors.New("max-icons must be at least 1")
	}
	if _, err := imagepkg.Format(c.Format); err != nil {
		return err
	}
	if strings.ToLower(c.Captions) != CaptionAsk {
		if _, err := compose.ParseCaptioner(c.Captions, c.CaptionText); err != nil {
			return err
		}
	}
	if c.CaptionColor != imagepkg.AutoColor {
		if _, err := imagepkg.ParseColor(c.CaptionColor); err != nil {
			return err
		}
	}
	return nil
}
