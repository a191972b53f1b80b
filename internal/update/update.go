// Package update checks GitHub releases for a newer surftab build. The
// result is cached for a day so repeated runs do not hit the network.
package update

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	semver "github.com/blang/semver/v4"
)

const (
	repoLatestURL = "https://api.github.com/repos/surftab/surftab/releases/latest"
	cacheFileName = "update.json"
	cacheTTL      = 24 * time.Hour
)

type cache struct {
	LastChecked time.Time `json:"last_checked"`
	Latest      string    `json:"latest"`
}

func configDir() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "surftab")
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "surftab")
}

func loadCache() (cache, error) {
	var c cache
	dir := configDir()
	if dir == "" {
		return c, errors.New("no config dir")
	}
	b, err := os.ReadFile(filepath.Join(dir, cacheFileName))
	if err != nil {
		return c, err
	}
	_ = json.Unmarshal(b, &c)
	return c, nil
}

func saveCache(c cache) {
	dir := configDir()
	if dir == "" {
		return
	}
	_ = os.MkdirAll(dir, 0755)
	b, _ := json.MarshalIndent(c, "", "  ")
	_ = os.WriteFile(filepath.Join(dir, cacheFileName), b, 0644)
}

// latestVersion asks a GitHub releases/latest endpoint for its tag.
func latestVersion(url string) (string, error) {
	client := &http.Client{Timeout: 2 * time.Second}
	req, _ := http.NewRequest("GET", url, nil)
	req.Header.Set("User-Agent", "surftab-updater")
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var obj struct {
		TagName string `json:"tag_name"`
		Name    string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return "", err
	}
	v := obj.TagName
	if v == "" {
		v = obj.Name
	}
	return v, nil
}

// Check returns (latest, isNewer, error). It uses a 24h cache and skips in CI.
func Check(current string, noNetwork bool) (string, bool, error) {
	if os.Getenv("CI") != "" || noNetwork {
		return "", false, nil
	}
	c, _ := loadCache()
	latest := c.Latest
	if time.Since(c.LastChecked) > cacheTTL || latest == "" {
		if v, err := latestVersion(repoLatestURL); err == nil {
			latest = normalize(v)
			c.Latest = latest
			c.LastChecked = time.Now()
			saveCache(c)
		}
	}
	if latest == "" || current == "" {
		return latest, false, nil
	}
	return latest, isNewer(latest, current), nil
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimPrefix(v, "v")
}

// isNewer reports whether a is a strictly newer release than b. Tags that
// do not parse as semantic versions never report newer.
func isNewer(a, b string) bool {
	av, errA := semver.ParseTolerant(a)
	bv, errB := semver.ParseTolerant(b)
	return errA == nil && errB == nil && av.GT(bv)
}
