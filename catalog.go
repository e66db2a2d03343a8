/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Seednode/statline/trivia"
	"github.com/julienschmidt/httprouter"
)

// loadCatalog returns the built-in player table, or the one at --data.
func loadCatalog(cfg *Config) (*trivia.Catalog, error) {
	if cfg.dataFile == "" {
		return trivia.Default()
	}

	f, err := os.Open(cfg.dataFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	catalog, err := trivia.LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.dataFile, err)
	}

	return catalog, nil
}

type catalogResponse struct {
	Players   int               `json:"players"`
	Teams     []trivia.Team     `json:"teams"`
	Positions []trivia.Position `json:"positions"`
	Stats     []trivia.Stat     `json:"stats"`
}

func serveCatalog(cfg *Config, catalog *trivia.Catalog, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		body, err := json.Marshal(catalogResponse{
			Players:   catalog.Len(),
			Teams:     catalog.Teams(),
			Positions: catalog.Positions(),
			Stats:     catalog.Stats(),
		})
		if err != nil {
			errs <- err
			http.Error(w, "catalog unavailable", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		written, err := w.Write(body)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Catalog (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}
