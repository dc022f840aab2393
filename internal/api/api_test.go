package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/youruser/iconscreen/internal/catalog"
	"github.com/youruser/iconscreen/internal/sidecar"
)

func newRouter(s *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, s)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type appsResponse struct {
	Count int             `json:"count"`
	Apps  []catalog.Entry `json:"apps"`
}

func TestHealth(t *testing.T) {
	w := do(t, newRouter(&Service{}), http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("expected ok, got %d %s", w.Code, w.Body.String())
	}
}

func TestMerge(t *testing.T) {
	body := `{"catalogs": [[{"id": "a", "title": "Maps"}, {"id": 7, "title": "Notes"}], [{"id": "a", "title": "Other"}, {"id": "c", "title": "Clock"}]]}`
	w := do(t, newRouter(&Service{}), http.MethodPost, "/api/merge", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}
	var got appsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var titles []string
	for _, e := range got.Apps {
		titles = append(titles, e.Title)
	}
	if got.Count != 3 {
		t.Fatalf("expected 3 apps, got %d", got.Count)
	}
	if diff := cmp.Diff([]string{"Maps", "Notes", "Clock"}, titles); diff != "" {
		t.Fatalf("titles mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeMissingIdentity(t *testing.T) {
	w := do(t, newRouter(&Service{}), http.MethodPost, "/api/merge", `{"catalogs": [[{"title": "Anonymous"}]]}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestFilter(t *testing.T) {
	s := &Service{Catalog: []catalog.Entry{
		{ID: "1", Title: "Chess Club", Icon: "https://example.com/chess.png"},
		{ID: "2", Title: "Clock", Icon: "icons/clock.png"},
	}}
	r := newRouter(s)

	w := do(t, r, http.MethodPost, "/api/filter", `{"remote_only": true}`)
	var got appsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Count != 1 || got.Apps[0].ID != "1" {
		t.Fatalf("expected only the remote entry, got %+v", got)
	}

	w = do(t, r, http.MethodPost, "/api/filter", `{"free_words": "spreadsheet"}`)
	if !strings.Contains(w.Body.String(), `"apps":[]`) {
		t.Fatalf("expected empty list, got %s", w.Body.String())
	}
}

func TestQR(t *testing.T) {
	w := do(t, newRouter(&Service{}), http.MethodGet, "/api/qr?text=hello&size=64", "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("expected png, got %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	img, err := imaging.Decode(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode qr: %v", err)
	}
	if img.Bounds().Dx() != 64 {
		t.Fatalf("expected 64px qr, got %v", img.Bounds())
	}
}

func openRoot(t *testing.T, dir string) *os.Root {
	t.Helper()
	root, err := os.OpenRoot(dir)
	if err != nil {
		t.Fatalf("open root: %v", err)
	}
	t.Cleanup(func() { root.Close() })
	return root
}

func TestCompose(t *testing.T) {
	dir := t.TempDir()
	if err := imaging.Save(imaging.New(1170, 2532, color.NRGBA{B: 90, A: 255}), filepath.Join(dir, "home.png")); err != nil {
		t.Fatalf("save background: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "icons"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := imaging.Save(imaging.New(48, 48, color.NRGBA{R: 255, A: 255}), filepath.Join(dir, "icons", "maps.png")); err != nil {
		t.Fatalf("save icon: %v", err)
	}

	req := map[string]any{
		"background": "home.png",
		"apps":       []map[string]string{{"title": "Maps", "icon": "icons/maps.png"}},
		"format":     "png",
		"seed":       7,
	}
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := &Service{Assets: openRoot(t, dir), Logger: log.New(io.Discard, "", 0)}
	w := do(t, newRouter(s), http.MethodPost, "/api/compose", string(b))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}

	var got composeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []sidecar.Record{{
		Title:           "Maps",
		Icon:            "icons/maps.png",
		Description:     catalog.NoDescription,
		Coordinates:     [4]int{90, 231, 270, 411},
		BackgroundImage: "home.png",
	}}
	if diff := cmp.Diff(want, got.Placements); diff != "" {
		t.Fatalf("placements mismatch (-want +got):\n%s", diff)
	}

	raw, err := base64.StdEncoding.DecodeString(got.Image)
	if err != nil {
		t.Fatalf("base64: %v", err)
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode composite: %v", err)
	}
	if img.Bounds().Size() != image.Pt(1170, 2532) {
		t.Fatalf("expected background size, got %v", img.Bounds().Size())
	}
}

func TestComposeRejectsServerPaths(t *testing.T) {
	dir := t.TempDir()
	bg := filepath.Join(dir, "bg.png")
	if err := imaging.Save(imaging.New(100, 200, color.NRGBA{A: 255}), bg); err != nil {
		t.Fatalf("save: %v", err)
	}
	assets := filepath.Join(dir, "assets")
	if err := os.Mkdir(assets, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := imaging.Save(imaging.New(100, 200, color.NRGBA{A: 255}), filepath.Join(assets, "ok.png")); err != nil {
		t.Fatalf("save: %v", err)
	}
	abs := `{"background": "` + bg + `", "apps": [{"title": "x", "icon": "` + bg + `"}]}`

	cases := map[string]struct {
		svc  *Service
		body string
	}{
		"absolute paths without asset dir": {&Service{}, abs},
		"absolute paths with asset dir":    {&Service{Assets: openRoot(t, assets)}, abs},
		"background escaping asset dir":    {&Service{Assets: openRoot(t, assets)}, `{"background": "../bg.png", "apps": [{"title": "x", "icon": "qr:x"}]}`},
		"icon escaping asset dir":          {&Service{Assets: openRoot(t, assets)}, `{"background": "ok.png", "apps": [{"title": "x", "icon": "../bg.png"}]}`},
		"qr background":                    {&Service{Assets: openRoot(t, assets)}, `{"background": "qr:x", "apps": [{"title": "x", "icon": "qr:x"}]}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(t, newRouter(tc.svc), http.MethodPost, "/api/compose", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestComposeQRIconsWithoutAssetDir(t *testing.T) {
	bgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := imaging.Encode(w, imaging.New(585, 1266, color.NRGBA{A: 255}), imaging.PNG); err != nil {
			t.Errorf("encode: %v", err)
		}
	}))
	defer bgSrv.Close()

	body := `{"background": "` + bgSrv.URL + `/home.png", "apps": [{"title": "Site", "icon": "qr:https://example.com"}], "format": "png"}`
	s := &Service{Logger: log.New(io.Discard, "", 0)}
	w := do(t, newRouter(s), http.MethodPost, "/api/compose", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}
	var got composeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Placements) != 1 || got.Placements[0].BackgroundImage != "home.png" {
		t.Fatalf("expected one placement on home.png, got %+v", got.Placements)
	}
}

func TestComposeBadRequests(t *testing.T) {
	r := newRouter(&Service{Catalog: []catalog.Entry{{ID: "1", Title: "x", Icon: "x.png"}}})
	cases := map[string]struct {
		body string
		code int
	}{
		"missing background": {`{}`, http.StatusBadRequest},
		"bad format":         {`{"background": "bg.png", "format": "svg"}`, http.StatusBadRequest},
		"bad captions":       {`{"background": "bg.png", "captions": "loud"}`, http.StatusBadRequest},
		"bad colour":         {`{"background": "bg.png", "caption_color": "white"}`, http.StatusBadRequest},
		"no background file": {`{"background": "/nonexistent/bg.png"}`, http.StatusBadRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/compose", tc.body)
			if w.Code != tc.code {
				t.Fatalf("expected %d, got %d %s", tc.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestComposeEmptyPool(t *testing.T) {
	dir := t.TempDir()
	bg := filepath.Join(dir, "bg.png")
	if err := imaging.Save(imaging.New(100, 200, color.NRGBA{A: 255}), bg); err != nil {
		t.Fatalf("save: %v", err)
	}
	w := do(t, newRouter(&Service{Assets: openRoot(t, dir)}), http.MethodPost, "/api/compose", `{"background": "bg.png"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty pool, got %d", w.Code)
	}
}
