// Package compose renders icon grids onto background images and records where
// every icon landed.
package compose

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"math/rand"
	"net/http"
	"path"
	"path/filepath"
	"time"

	"golang.org/x/image/font/opentype"

	"github.com/youruser/iconscreen/internal/catalog"
	imagepkg "github.com/youruser/iconscreen/internal/image"
	"github.com/youruser/iconscreen/internal/layout"
	"github.com/youruser/iconscreen/internal/sidecar"
	"github.com/youruser/iconscreen/internal/util"
)

// DefaultMaxIcons caps how many icons one composite may hold.
const DefaultMaxIcons = 24

// ErrEmptyPool is returned when there is nothing to sample from.
var ErrEmptyPool = errors.New("catalog pool is empty")

// Rand is the subset of *rand.Rand the engine draws from.
type Rand interface {
	Intn(n int) int
}

// Background is a decoded background image and the name recorded for it.
type Background struct {
	Name  string
	Image image.Image
}

// OpenBackground decodes a background from a local path or URL.
func OpenBackground(ctx context.Context, client *http.Client, ref string) (Background, error) {
	img, err := imagepkg.OpenImage(ctx, client, ref)
	if err != nil {
		return Background{}, fmt.Errorf("background: %w", err)
	}
	name := filepath.Base(ref)
	if util.IsURL(ref) {
		name = path.Base(ref)
	}
	return Background{Name: name, Image: img}, nil
}

// Size returns the background's pixel dimensions.
func (b Background) Size() image.Point {
	return b.Image.Bounds().Size()
}

// Engine composes one batch of icons per call. The catalog pool is passed in
// on every call and never retained.
type Engine struct {
	Icons    imagepkg.IconSource
	Captions Captioner
	// Font is used for captions; nil selects the default font.
	Font *opentype.Font
	// TextColor defaults to white. AutoColor overrides it per background.
	TextColor color.Color
	AutoColor bool
	Rand      Rand
	MaxIcons  int
	Logger    *log.Logger
}

// Result is one rendered composite.
type Result struct {
	// Image is opaque and has the background's dimensions.
	Image   *image.NRGBA
	Records []sidecar.Record
}

func (e *Engine) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

func (e *Engine) random() Rand {
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e.Rand
}

// Sample draws between 1 and min(MaxIcons, len(pool)) distinct entries,
// uniformly and in draw order.
func (e *Engine) Sample(pool []catalog.Entry) ([]catalog.Entry, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	maxIcons := e.MaxIcons
	if maxIcons <= 0 {
		maxIcons = DefaultMaxIcons
	}
	r := e.random()
	k := 1 + r.Intn(min(maxIcons, len(pool)))

	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	out := make([]catalog.Entry, k)
	for i := 0; i < k; i++ {
		j := i + r.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = pool[idx[i]]
	}
	return out, nil
}

// Compose samples from pool and renders the icons onto bg using cfg. Icons
// that fail to load are logged and skipped; the next icon takes their grid
// slot.
func (e *Engine) Compose(ctx context.Context, bg Background, pool []catalog.Entry, cfg layout.Config) (Result, error) {
	selected, err := e.Sample(pool)
	if err != nil {
		return Result{}, err
	}
	return e.Render(ctx, bg, selected, cfg)
}

// Render places entries in order without sampling.
func (e *Engine) Render(ctx context.Context, bg Background, entries []catalog.Entry, cfg layout.Config) (Result, error) {
	if e.Icons == nil {
		return Result{}, errors.New("compose: no icon source")
	}
	captions := e.Captions
	if captions == nil {
		captions = NoCaption{}
	}
	textColor := e.TextColor
	if textColor == nil {
		textColor = imagepkg.White
	}
	if e.AutoColor {
		textColor = imagepkg.ContrastColor(bg.Image)
	}

	canvas := imagepkg.NewCanvas(bg.Image)
	var (
		stamper *imagepkg.TextStamper
		records []sidecar.Record
	)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		icon, err := e.Icons.LoadIcon(ctx, entry.Icon, cfg.IconSize)
		if err != nil {
			e.logger().Printf("skipping %q: %v", entry.Title, err)
			continue
		}
		rounded := imagepkg.RoundCorners(icon, cfg.CornerRadius)
		pos := cfg.Position(len(records))
		box := image.Rectangle{Min: pos, Max: pos.Add(rounded.Bounds().Size())}
		imagepkg.PasteMasked(canvas, rounded, pos)

		if text := captions.Caption(entry); text != "" {
			if stamper == nil {
				stamper, err = imagepkg.NewTextStamper(e.Font, cfg.FontSize)
				if err != nil {
					return Result{}, err
				}
			}
			center := image.Pt(box.Min.X+box.Dx()/2, box.Min.Y+box.Dy()/2)
			stamper.Stamp(canvas, text, center, textColor)
		}

		records = append(records, sidecar.Record{
			Title:           entry.Title,
			Icon:            entry.Icon,
			Description:     entry.Description,
			Coordinates:     sidecar.BoxCoordinates(box),
			BackgroundImage: bg.Name,
		})
	}
	return Result{Image: imagepkg.Flatten(canvas), Records: records}, nil
}

// Generate composes one image and writes combined_image_<idx>.<ext> and
// image_data_<idx>.json into dir. The sidecar is written last.
func (e *Engine) Generate(ctx context.Context, bg Background, pool []catalog.Entry, cfg layout.Config, dir, idx, ext string) (Result, error) {
	if _, err := imagepkg.Format(ext); err != nil {
		return Result{}, err
	}
	res, err := e.Compose(ctx, bg, pool, cfg)
	if err != nil {
		return Result{}, err
	}
	if err := util.EnsureDir(dir); err != nil {
		return Result{}, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	if err := imagepkg.SaveImage(res.Image, filepath.Join(dir, imagepkg.CompositeFileName(idx, ext))); err != nil {
		return Result{}, err
	}
	if _, err := sidecar.WriteFile(dir, idx, res.Records); err != nil {
		return Result{}, err
	}
	return res, nil
}
