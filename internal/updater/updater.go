package updater

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/imroc/req/v3"
)

const (
	checkURL = "https://api.github.com/repos/cyberstack/hemu/releases/latest"
	timeout  = 5 * time.Second
)

type releaseResponse struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
	Assets  []struct {
		Name string `json:"name"`
		URL  string `json:"browser_download_url"`
	} `json:"assets"`
}

// UpdateInfo contains information about an available update.
type UpdateInfo struct {
	Latest      string // latest version (e.g. "0.2.0")
	DownloadURL string // platform asset, or the release page when none matches
}

// CheckForUpdate fetches the latest release and compares it with the
// current version. Returns nil if up-to-date or on any error.
func CheckForUpdate(currentVersion string) *UpdateInfo {
	client := req.C().SetTimeout(timeout).SetUserAgent("hemu/" + currentVersion)
	return check(client, checkURL, currentVersion)
}

func check(client *req.Client, url, currentVersion string) *UpdateInfo {
	var rel releaseResponse
	resp, err := client.R().SetResult(&rel).Get(url)
	if err != nil || !resp.IsSuccess() {
		return nil
	}

	latest := strings.TrimPrefix(rel.TagName, "v")
	if latest == "" || !isNewer(latest, currentVersion) {
		return nil
	}

	info := &UpdateInfo{Latest: latest, DownloadURL: rel.HTMLURL}
	platform := runtime.GOOS + "_" + runtime.GOARCH
	for _, a := range rel.Assets {
		if strings.Contains(a.Name, platform) {
			info.DownloadURL = a.URL
			break
		}
	}
	return info
}

// isNewer returns true if remote is strictly newer than local.
// Versions are expected as "major.minor.patch" (e.g. "1.6.2").
func isNewer(remote, local string) bool {
	r, rErr := parseSemver(remote)
	l, lErr := parseSemver(local)
	if rErr != nil || lErr != nil {
		return remote != local // fallback to inequality
	}
	for i := 0; i < 3; i++ {
		if r[i] != l[i] {
			return r[i] > l[i]
		}
	}
	return false
}

func parseSemver(s string) ([3]int, error) {
	s = strings.TrimPrefix(s, "v")
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return [3]int{}, fmt.Errorf("invalid semver: %s", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return [3]int{}, err
		}
		v[i] = n
	}
	return v, nil
}
