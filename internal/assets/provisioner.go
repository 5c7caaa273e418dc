// Package assets provisions third-party browser libraries onto local disk.
// Each asset is fetched from its CDN at most once: a file already present at
// the target path is treated as provisioned and never re-fetched, even
// across restarts. Presence is existence-based only; content is not
// inspected or checksummed.
package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/orbview/orbview/internal/config"
)

// Asset is one remote file and the local path it must exist at.
type Asset struct {
	Name string
	URL  string
	Path string
}

// DefaultAssets returns the viewer libraries the index page depends on,
// rooted under the configured static directory.
func DefaultAssets(cfg *config.Config) []Asset {
	return []Asset{
		{
			Name: "three.js",
			URL:  cfg.ThreeJSURL,
			Path: filepath.Join(cfg.StaticDir, "three.min.js"),
		},
		{
			Name: "OrbitControls",
			URL:  cfg.OrbitControlsURL,
			Path: filepath.Join(cfg.StaticDir, "OrbitControls.js"),
		},
	}
}

type Provisioner struct {
	client *resty.Client
	log    zerolog.Logger
}

// NewProvisioner builds a provisioner whose HTTP client enforces the given
// timeout. There is no retry policy: a failed fetch propagates to the caller.
func NewProvisioner(timeout time.Duration, log zerolog.Logger) *Provisioner {
	return &Provisioner{
		client: resty.New().SetTimeout(timeout),
		log:    log,
	}
}

// Ensure makes sure the asset exists on disk, fetching it if absent.
// The parent directory must already exist.
func (p *Provisioner) Ensure(ctx context.Context, a Asset) error {
	if _, err := os.Stat(a.Path); err == nil {
		p.log.Info().Str("asset", a.Name).Str("path", a.Path).Msg("asset already exists")
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", a.Path, err)
	}

	p.log.Info().Str("asset", a.Name).Str("url", a.URL).Msg("downloading asset")

	resp, err := p.client.R().
		SetContext(ctx).
		Get(a.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch %s from %s: %w", a.Name, a.URL, err)
	}

	if resp.IsError() {
		return fmt.Errorf("unexpected status code %d fetching %s from %s", resp.StatusCode(), a.Name, a.URL)
	}

	if err := os.WriteFile(a.Path, resp.Body(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", a.Path, err)
	}

	p.log.Info().Str("asset", a.Name).Str("path", a.Path).Int("bytes", len(resp.Body())).Msg("asset downloaded")
	return nil
}

// EnsureAll provisions each asset in order, stopping at the first failure.
func (p *Provisioner) EnsureAll(ctx context.Context, assets []Asset) error {
	for _, a := range assets {
		if err := p.Ensure(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
