package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fragmede/forumview/internal/markup"
)

type Config struct {
	CacheDir         string
	DBPath           string
	LogPath          string
	BaseURL          string
	TopicPath        string // fmt pattern taking the topic id
	ListPath         string
	TopicTTL         time.Duration
	ListTTL          time.Duration
	MonitorInterval  time.Duration
	FetchConcurrency int
	FetchPageSize    int
	MemoSize         int
	Markup           markup.Options
}

func Default() Config {
	cacheDir := filepath.Join(userConfigDir(), "forumview")
	return Config{
		CacheDir:         cacheDir,
		DBPath:           filepath.Join(cacheDir, "cache.db"),
		LogPath:          filepath.Join(cacheDir, "debug.log"),
		BaseURL:          "https://forum.example.org",
		TopicPath:        "/topic/%d",
		ListPath:         "/",
		TopicTTL:         5 * time.Minute,
		ListTTL:          60 * time.Second,
		MonitorInterval:  60 * time.Second,
		FetchConcurrency: 4,
		FetchPageSize:    30,
		MemoSize:         64,
		Markup:           markup.DefaultOptions(),
	}
}

// Load returns Default overridden by FORUMVIEW_* environment variables.
func Load() (Config, error) {
	cfg := Default()

	if v := os.Getenv("FORUMVIEW_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
		cfg.DBPath = filepath.Join(v, "cache.db")
		cfg.LogPath = filepath.Join(v, "debug.log")
	}
	setString(&cfg.BaseURL, "FORUMVIEW_BASE_URL")
	setString(&cfg.TopicPath, "FORUMVIEW_TOPIC_PATH")
	setString(&cfg.ListPath, "FORUMVIEW_LIST_PATH")
	setString(&cfg.Markup.ContainerTag, "FORUMVIEW_CONTAINER_TAG")
	setString(&cfg.Markup.ContentMarker, "FORUMVIEW_CONTENT_MARKER")

	durations := []struct {
		dst *time.Duration
		env string
	}{
		{&cfg.TopicTTL, "FORUMVIEW_TOPIC_TTL"},
		{&cfg.ListTTL, "FORUMVIEW_LIST_TTL"},
		{&cfg.MonitorInterval, "FORUMVIEW_MONITOR_INTERVAL"},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			return Config{}, fmt.Errorf("invalid %s %q", d.env, v)
		}
		*d.dst = parsed
	}

	ints := []struct {
		dst *int
		env string
	}{
		{&cfg.FetchConcurrency, "FORUMVIEW_FETCH_CONCURRENCY"},
		{&cfg.FetchPageSize, "FORUMVIEW_PAGE_SIZE"},
		{&cfg.MemoSize, "FORUMVIEW_MEMO_SIZE"},
	}
	for _, i := range ints {
		v := os.Getenv(i.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid %s %q", i.env, v)
		}
		*i.dst = n
	}
	return cfg, nil
}

// TopicURL returns the page address of a topic.
func (c Config) TopicURL(id int) string {
	return c.BaseURL + fmt.Sprintf(c.TopicPath, id)
}

// ListURL returns the address of the topic index.
func (c Config) ListURL() string {
	return c.BaseURL + c.ListPath
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
