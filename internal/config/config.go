// Package config loads and normalizes the site configuration file.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// SiteConf is the declarative configuration for one site. All relative paths
// are resolved against the directory of the configuration file, because the
// executable can be called from anywhere.
type SiteConf struct {
	SiteTitle   string `mapstructure:"site_title"`
	BaseURL     string `mapstructure:"base_url"`
	Author      string `mapstructure:"author"`
	AuthorURI   string `mapstructure:"author_uri"`
	Description string `mapstructure:"description"`

	WritingDir           string `mapstructure:"writing_dir"`
	WritingFileExtension string `mapstructure:"writing_file_extension"`
	StaticFilesDir       string `mapstructure:"static_files_dir"`
	WellKnownDir         string `mapstructure:"well_known_dir"`

	OutDir string `mapstructure:"out_dir"`

	// Literal include files spliced into every rendered page.
	HeadFile   string `mapstructure:"head_file"`
	HeaderFile string `mapstructure:"header_file"`
	FooterFile string `mapstructure:"footer_file"`

	// HTML layout for generated redirect pages, containing the literal
	// token REDIRECT_TO.
	RedirectLayout string `mapstructure:"redirect_layout"`

	// Slugs hidden from the sitemap and the feed respectively. The two
	// lists are independent.
	SitemapExclude []string `mapstructure:"sitemap_exclude"`
	FeedExclude    []string `mapstructure:"feed_exclude"`
}

// Load reads the configuration file at fileName and applies defaults and
// path normalization.
func Load(fileName string) (*SiteConf, error) {
	v := viper.New()
	v.SetConfigFile(fileName)

	v.SetDefault("site_title", "A Site")
	v.SetDefault("writing_file_extension", ".md")
	v.SetDefault("out_dir", "public")
	// 404 stays out of the sitemap at format time, not here, so the feed
	// project's own list decides its feed visibility.
	v.SetDefault("sitemap_exclude", []string{"rss", "index"})
	v.SetDefault("feed_exclude", []string{"rss", "index", "404"})

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading site config %v: %w", fileName, err)
	}

	conf := &SiteConf{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("parsing site config %v: %w", fileName, err)
	}

	if conf.WritingDir == "" {
		return nil, fmt.Errorf("site config %v: writing_dir is required", fileName)
	}
	if conf.StaticFilesDir == "" {
		conf.StaticFilesDir = filepath.Join(conf.WritingDir, "static")
	}
	if conf.WellKnownDir == "" {
		conf.WellKnownDir = filepath.Join(conf.WritingDir, ".well-known")
	}
	if conf.RedirectLayout == "" {
		conf.RedirectLayout = "templates/redirect.html"
	}
	if conf.BaseURL != "" && !strings.HasSuffix(conf.BaseURL, "/") {
		conf.BaseURL += "/"
	}

	baseDir := filepath.Dir(fileName)
	conf.WritingDir = normalizePath(conf.WritingDir, baseDir)
	conf.StaticFilesDir = normalizePath(conf.StaticFilesDir, baseDir)
	conf.WellKnownDir = normalizePath(conf.WellKnownDir, baseDir)
	conf.OutDir = normalizePath(conf.OutDir, baseDir)
	conf.RedirectLayout = normalizePath(conf.RedirectLayout, baseDir)
	conf.HeadFile = normalizePath(conf.HeadFile, baseDir)
	conf.HeaderFile = normalizePath(conf.HeaderFile, baseDir)
	conf.FooterFile = normalizePath(conf.FooterFile, baseDir)

	return conf, nil
}

func normalizePath(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
