package catalog

import (
	"errors"
	"strings"
)

// ErrNoResults is returned when a catalog search yields no candidates.
var ErrNoResults = errors.New("no catalog results found")

// Entry is a single software result from the catalog search or lookup endpoints.
type Entry struct {
	TrackID            int64    `json:"trackId"`
	TrackName          string   `json:"trackName"`
	PrimaryGenreName   string   `json:"primaryGenreName"`
	Description        string   `json:"description"`
	ArtworkURL60       string   `json:"artworkUrl60,omitempty"`
	ArtworkURL100      string   `json:"artworkUrl100,omitempty"`
	ArtworkURL512      string   `json:"artworkUrl512,omitempty"`
	ScreenshotURLs     []string `json:"screenshotUrls,omitempty"`
	IPadScreenshotURLs []string `json:"ipadScreenshotUrls,omitempty"`
	SellerName         string   `json:"sellerName,omitempty"`
	TrackViewURL       string   `json:"trackViewUrl,omitempty"`
}

// IconURL returns the highest resolution artwork URL available.
// When only the 100px artwork exists its size token is rewritten to 512px.
func (e Entry) IconURL() string {
	if e.ArtworkURL512 != "" {
		return e.ArtworkURL512
	}
	if e.ArtworkURL100 != "" {
		return strings.Replace(e.ArtworkURL100, "100x100", "512x512", 1)
	}
	return strings.Replace(e.ArtworkURL60, "60x60", "512x512", 1)
}

// response is the envelope shared by /search and /lookup.
type response struct {
	ResultCount int     `json:"resultCount"`
	Results     []Entry `json:"results"`
}
