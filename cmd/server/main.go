package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/youruser/iconscreen/internal/api"
	"github.com/youruser/iconscreen/internal/catalog"
	"github.com/youruser/iconscreen/internal/config"
)

type serverConfig struct {
	Port        string `env:"PORT" envDefault:"8080"`
	CatalogPath string `env:"SCREEN_CATALOG"`
	FontPath    string `env:"SCREEN_FONT"`
	AssetDir    string `env:"SCREEN_ASSET_DIR"`
}

func main() {
	var cfg serverConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("Error: %v", err)
	}

	svc := &api.Service{Font: cfg.FontPath, Logger: log.Default()}
	if cfg.AssetDir != "" {
		root, err := os.OpenRoot(cfg.AssetDir)
		if err != nil {
			config.Exitf("Error: open asset dir: %v", err)
		}
		defer root.Close()
		svc.Assets = root
	}
	// Load catalog at startup (best-effort); requests may carry their own apps.
	if cfg.CatalogPath != "" {
		entries, err := catalog.LoadEntries(cfg.CatalogPath)
		if err != nil {
			log.Println("Warning: failed to load catalog at startup:", err)
		} else {
			svc.Catalog = entries
			log.Printf("loaded %d apps from %s", len(entries), cfg.CatalogPath)
		}
	}

	r := gin.Default()
	api.RegisterRoutes(r, svc)

	log.Println("starting server on http://localhost:" + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
