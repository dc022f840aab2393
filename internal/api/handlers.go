package api

import (
	"bytes"
	"encoding/base64"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/youruser/iconscreen/internal/catalog"
	"github.com/youruser/iconscreen/internal/compose"
	imagepkg "github.com/youruser/iconscreen/internal/image"
	"github.com/youruser/iconscreen/internal/layout"
	"github.com/youruser/iconscreen/internal/sidecar"
)

// Service holds what the handlers share: the catalog loaded at startup and
// the client used for remote icons and backgrounds.
type Service struct {
	Catalog []catalog.Entry
	Client  *http.Client
	// Assets confines local files named in compose requests. When nil,
	// requests may only reference URLs and qr: icons.
	Assets *os.Root
	Font   string
	Logger *log.Logger
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Service) filterHandler(c *gin.Context) {
	var opt catalog.FilterOptions
	if err := c.BindJSON(&opt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out := catalog.Filter(s.Catalog, opt)
	if out == nil {
		out = []catalog.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "apps": out})
}

// merge accepts {"catalogs": [[...], [...]]} and returns the deduplicated list.
func mergeHandler(c *gin.Context) {
	var req struct {
		Catalogs [][]catalog.Entry `json:"catalogs"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	merged, err := catalog.Merge(req.Catalogs...)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if merged == nil {
		merged = []catalog.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(merged), "apps": merged})
}

// qr endpoint returns a PNG of a QR for "text" query param
func qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		text = "iconscreen"
	}
	size := 180
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 {
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

type composeRequest struct {
	Background   string          `json:"background" binding:"required"`
	Apps         []catalog.Entry `json:"apps"`
	Captions     string          `json:"captions"`
	CaptionText  string          `json:"caption_text"`
	CaptionColor string          `json:"caption_color"`
	Format       string          `json:"format"`
	Seed         int64           `json:"seed"`
	MaxIcons     int             `json:"max_icons"`
}

type composeResponse struct {
	Placements []sidecar.Record `json:"placements"`
	Format     string           `json:"format"`
	Image      string           `json:"image"`
}

// composeHandler renders one composite. The image comes back base64 encoded
// next to its placement records.
func (s *Service) composeHandler(c *gin.Context) {
	var req composeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Format == "" {
		req.Format = "jpg"
	}
	if req.CaptionText == "" {
		req.CaptionText = "app"
	}
	format, err := imagepkg.Format(req.Format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	captions, err := compose.ParseCaptioner(req.Captions, req.CaptionText)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pool := s.Catalog
	var icons imagepkg.IconSource = imagepkg.IconLoader{Client: s.Client}
	if len(req.Apps) > 0 {
		pool = make([]catalog.Entry, 0, len(req.Apps))
		for _, e := range req.Apps {
			e = e.WithPlaceholders()
			if e.Icon != catalog.NoIcon {
				if err := checkRef(s.Assets, e.Icon, true); err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
			}
			pool = append(pool, e)
		}
		icons = assetIcons{assets: s.Assets, remote: imagepkg.IconLoader{Client: s.Client}}
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine := &compose.Engine{
		Icons:    icons,
		Captions: captions,
		MaxIcons: req.MaxIcons,
		Logger:   s.Logger,
		Rand:     rand.New(rand.NewSource(seed)),
	}
	if _, none := captions.(compose.NoCaption); !none {
		engine.Font = imagepkg.LoadFont(s.Font, s.Logger)
	}
	switch req.CaptionColor {
	case "":
	case imagepkg.AutoColor:
		engine.AutoColor = true
	default:
		col, err := imagepkg.ParseColor(req.CaptionColor)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		engine.TextColor = col
	}

	ctx := c.Request.Context()
	bg, err := s.openBackground(ctx, req.Background)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := engine.Compose(ctx, bg, pool, layout.ForBackground(bg.Size()))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	buf := new(bytes.Buffer)
	if err := imagepkg.Encode(buf, res.Image, format); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	placements := res.Records
	if placements == nil {
		placements = []sidecar.Record{}
	}
	c.JSON(http.StatusOK, composeResponse{
		Placements: placements,
		Format:     req.Format,
		Image:      base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
}
