// Package screen runs the composer over a set of backgrounds.
package screen

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/youruser/iconscreen/internal/catalog"
	"github.com/youruser/iconscreen/internal/compose"
	imagepkg "github.com/youruser/iconscreen/internal/image"
	"github.com/youruser/iconscreen/internal/layout"
	"github.com/youruser/iconscreen/internal/util"
)

// CaptionPrompt is shown when the caption mode is "ask".
const CaptionPrompt = "add app name under the icon? (yes/no): "

// Run generates cfg.Copies composites per background. A background that
// cannot be opened or rendered is logged and skipped; the returned error
// joins every such failure.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := log.New(out, "", log.LstdFlags)

	mode := cfg.Captions
	if strings.EqualFold(mode, CaptionAsk) {
		yes, err := askYesNo(in, out, CaptionPrompt)
		if err != nil {
			return err
		}
		mode = compose.CaptionNone
		if yes {
			mode = compose.CaptionTitle
		}
	}
	captions, err := compose.ParseCaptioner(mode, cfg.CaptionText)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.FetchTimeout}
	pool, icons, err := loadPool(cfg, client)
	if err != nil {
		return err
	}

	engine := &compose.Engine{
		Icons:    icons,
		Captions: captions,
		MaxIcons: cfg.MaxIcons,
		Logger:   logger,
		Rand:     rand.New(rand.NewSource(seed(cfg.Seed))),
	}
	if _, none := captions.(compose.NoCaption); !none {
		engine.Font = imagepkg.LoadFont(cfg.FontPath, logger)
	}
	if cfg.CaptionColor == imagepkg.AutoColor {
		engine.AutoColor = true
	} else if engine.TextColor, err = imagepkg.ParseColor(cfg.CaptionColor); err != nil {
		return err
	}

	reference := layout.Reference
	reference.FontSize = cfg.FontSize

	backgrounds, err := backgroundPaths(cfg)
	if err != nil {
		return err
	}

	var (
		errs      []error
		generated int
	)
	for _, b := range backgrounds {
		path := b.Path
		bg, err := compose.OpenBackground(ctx, client, path)
		if err != nil {
			logger.Printf("skipping background %s: %v", path, err)
			errs = append(errs, err)
			continue
		}
		lc := reference.Scale(bg.Size())
		for copyNum := 1; copyNum <= cfg.Copies; copyNum++ {
			idx := strconv.Itoa(copyNum)
			if cfg.Background == "" {
				idx = fmt.Sprintf("%d_%d", b.Index, copyNum)
			}
			res, err := engine.Generate(ctx, bg, pool, lc, cfg.OutputDir, idx, cfg.Format)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Printf("background %s copy %d: %v", path, copyNum, err)
				errs = append(errs, fmt.Errorf("background %s: %w", path, err))
				break
			}
			generated++
			logger.Printf("wrote %s with %d icon(s)", imagepkg.CompositeFileName(idx, cfg.Format), len(res.Records))
		}
	}

	fmt.Fprintf(out, "generated %d composite(s) in %s\n", generated, cfg.OutputDir)
	return errors.Join(errs...)
}

func loadPool(cfg Config, client *http.Client) ([]catalog.Entry, imagepkg.IconSource, error) {
	var (
		pool  []catalog.Entry
		icons imagepkg.IconSource
	)
	if cfg.DatasetDir != "" {
		entries, src, err := imagepkg.LoadDataset(cfg.DatasetDir)
		if err != nil {
			return nil, nil, err
		}
		pool, icons = entries, src
	} else {
		entries, err := catalog.LoadEntries(cfg.CatalogPath)
		if err != nil {
			return nil, nil, err
		}
		pool, icons = entries, imagepkg.IconLoader{Client: client}
	}
	if strings.TrimSpace(cfg.Match) != "" {
		pool = catalog.Filter(pool, catalog.FilterOptions{FreeWords: cfg.Match})
	}
	if len(pool) == 0 {
		return nil, nil, compose.ErrEmptyPool
	}
	return pool, icons, nil
}

// backgroundPaths resolves the backgrounds to render. In directory mode the
// index is the file's position in the sorted listing, so other files in the
// directory still advance it.
func backgroundPaths(cfg Config) ([]util.IndexedImage, error) {
	if cfg.Background != "" {
		if !util.IsURL(cfg.Background) && !util.IsImageFile(cfg.Background) {
			return nil, fmt.Errorf("background %s is not a png or jpeg file", cfg.Background)
		}
		return []util.IndexedImage{{Path: cfg.Background}}, nil
	}
	images, err := util.IndexImages(cfg.BackgroundDir)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no background images found in %s", cfg.BackgroundDir)
	}
	return images, nil
}

func askYesNo(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if in == nil {
		return false, nil
	}
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	return strings.ToLower(strings.TrimSpace(line)) == "yes", nil
}

func seed(s int64) int64 {
	if s != 0 {
		return s
	}
	return time.Now().UnixNano()
}
