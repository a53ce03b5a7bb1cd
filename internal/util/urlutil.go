package util

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"vidscribe/internal/model"
)

// ContentKind tells video sources from podcast sources.
type ContentKind string

const (
	ContentVideo   ContentKind = "video"
	ContentPodcast ContentKind = "podcast"
)

// Provider names the origin of a media URL as the backend resolves it.
type Provider string

const (
	ProviderYouTube      Provider = "youtube"
	ProviderBilibili     Provider = "bilibili"
	ProviderXiaoyuzhou   Provider = "xiaoyuzhou"
	ProviderApple        Provider = "apple"
	ProviderSpotify      Provider = "spotify"
	ProviderAnchor       Provider = "anchor"
	ProviderCastbox      Provider = "castbox"
	ProviderPodbean      Provider = "podbean"
	ProviderPodcastAudio Provider = "podcast-audio"
	ProviderPodcastRSS   Provider = "podcast-rss"
	ProviderGeneric      Provider = "generic"
)

// Source is a validated media URL.
type Source struct {
	URL      *url.URL
	Provider Provider
	Kind     ContentKind
}

var audioExtensions = map[string]bool{
	".mp3": true, ".m4a": true, ".aac": true, ".ogg": true,
	".opus": true, ".wav": true, ".flac": true, ".m4b": true,
}

var podcastHosts = []struct {
	host     string
	provider Provider
}{
	{"podcasts.apple.com", ProviderApple},
	{"open.spotify.com", ProviderSpotify},
	{"anchor.fm", ProviderAnchor},
	{"castbox.fm", ProviderCastbox},
	{"podbean.com", ProviderPodbean},
}

// DetectSource parses a raw URL string and labels its source. A missing
// scheme defaults to https. Empty, malformed and non-http(s) URLs are
// rejected with model.ErrValidation.
func DetectSource(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, fmt.Errorf("empty URL: %w", model.ErrValidation)
	}

	// "localhost:8000/x" parses with "localhost" as its scheme, so anything
	// without "://" is taken as scheme-less.
	full := raw
	if !strings.Contains(raw, "://") {
		full = "https://" + raw
	}
	u, err := url.Parse(full)
	if err != nil || u.Host == "" || (!strings.Contains(u.Hostname(), ".") && u.Hostname() != "localhost") {
		return Source{}, fmt.Errorf("malformed URL %q: %w", raw, model.ErrValidation)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return Source{}, fmt.Errorf("unsupported URL scheme %q, use http or https: %w", u.Scheme, model.ErrValidation)
	}

	host := strings.ToLower(u.Hostname())
	p := strings.ToLower(u.Path)
	src := Source{URL: u, Kind: ContentPodcast}

	switch ext := path.Ext(p); {
	case audioExtensions[ext]:
		src.Provider = ProviderPodcastAudio
		return src, nil
	case ext == ".rss" || ext == ".xml" || strings.Contains(p, "rss") || strings.Contains(p, "feed"):
		src.Provider = ProviderPodcastRSS
		return src, nil
	case strings.Contains(host, "xiaoyuzhoufm.com") && strings.Contains(p, "/episode/"):
		src.Provider = ProviderXiaoyuzhou
		return src, nil
	}

	for _, ph := range podcastHosts {
		if host == ph.host || strings.HasSuffix(host, "."+ph.host) {
			src.Provider = ph.provider
			return src, nil
		}
	}

	src.Kind = ContentVideo
	switch {
	case strings.HasSuffix(host, "youtube.com") || host == "youtu.be":
		src.Provider = ProviderYouTube
	case strings.Contains(host, "bilibili.com"):
		src.Provider = ProviderBilibili
	default:
		src.Provider = ProviderGeneric
	}
	return src, nil
}
