package mime

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
)

var (
	imgurPagePattern    = regexp.MustCompile(`^https?://(www\.|m\.)?imgur\.com/`)
	redditUploadPattern = regexp.MustCompile(`reddituploads\.com/`)
	youtubePattern      = regexp.MustCompile(`^https?://((www\.|m\.)?youtube\.com/watch|youtu\.be/)`)
	gifvPattern         = regexp.MustCompile(`\.gifv$`)
)

// extensionTypes is the static fallback table for direct links. Unknown
// extensions resolve to no type, which sends the link to the browser.
var extensionTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
}

// defaultHandlers returns the handler chain in priority order. Ordering
// matters: the imgur page handler must win over the generic fallback for
// URLs both would match.
func defaultHandlers() []Handler {
	return []Handler{
		{Name: "imgur", Pattern: imgurPagePattern, Resolve: resolveImgurPage},
		{Name: "reddituploads", Pattern: redditUploadPattern, Resolve: resolveRedditUpload},
		{Name: "youtube", Pattern: youtubePattern, Resolve: resolveYoutube},
		{Name: "gifv", Pattern: gifvPattern, Resolve: resolveGifv},
		{Name: "generic", Pattern: regexp.MustCompile(`.`), Resolve: resolveGeneric},
	}
}

// resolveImgurPage fetches an imgur landing page and scrapes it for the
// actual media resource. When the discovered resource is itself a gifv
// container, it recurses into that handler exactly once; there is no
// further chaining.
func resolveImgurPage(ctx context.Context, r *Resolver, url string) (string, string, error) {
	// Links on the page domain can still point straight at media
	// (imgur.com/abc.jpg); no landing page to scrape for those.
	if typeByExtension(url) != "" {
		return resolveGeneric(ctx, r, url)
	}

	found, err := r.scrapeMediaURL(ctx, url)
	if err != nil {
		return "", "", err
	}
	if found == "" {
		return "", "", fmt.Errorf("no media found at %s", url)
	}
	if gifvPattern.MatchString(found) {
		return resolveGifv(ctx, r, found)
	}
	ctype := typeByExtension(found)
	if ctype == "" {
		// og:video content is playable even without an extension.
		ctype = "video/mp4"
	}
	return found, ctype, nil
}

// resolveRedditUpload issues a HEAD request and trusts the Content-Type
// header; reddit's upload URLs carry no usable extension.
func resolveRedditUpload(ctx context.Context, r *Resolver, url string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return "", "", err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	ctype := resp.Header.Get("Content-Type")
	if ctype == "" {
		return "", "", fmt.Errorf("no content type from %s", url)
	}
	if i := strings.IndexByte(ctype, ';'); i >= 0 {
		ctype = strings.TrimSpace(ctype[:i])
	}
	return url, ctype, nil
}

func resolveYoutube(_ context.Context, _ *Resolver, url string) (string, string, error) {
	return url, "video/x-youtube", nil
}

// resolveGifv rewrites imgur's gifv pseudo-container to the real webm.
func resolveGifv(_ context.Context, _ *Resolver, url string) (string, string, error) {
	return strings.TrimSuffix(url, ".gifv") + ".webm", "video/webm", nil
}

func resolveGeneric(_ context.Context, _ *Resolver, url string) (string, string, error) {
	return url, typeByExtension(url), nil
}

func typeByExtension(url string) string {
	u := url
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return extensionTypes[strings.ToLower(path.Ext(u))]
}

// scrapeMediaURL fetches a landing page and returns the first media
// resource referenced by its OpenGraph tags, preferring video over image.
func (r *Resolver) scrapeMediaURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	var video, image string
	tokenizer := xhtml.NewTokenizer(resp.Body)
	for {
		tt := tokenizer.Next()
		if tt == xhtml.ErrorToken {
			break
		}
		if tt != xhtml.StartTagToken && tt != xhtml.SelfClosingTagToken {
			continue
		}
		t := tokenizer.Token()
		switch t.Data {
		case "meta":
			var prop, content string
			for _, attr := range t.Attr {
				switch attr.Key {
				case "property", "name":
					prop = attr.Val
				case "content":
					content = attr.Val
				}
			}
			switch prop {
			case "og:video", "og:video:url":
				if video == "" {
					video = content
				}
			case "og:image":
				if image == "" {
					image = content
				}
			}
		case "link":
			var rel, href string
			for _, attr := range t.Attr {
				switch attr.Key {
				case "rel":
					rel = attr.Val
				case "href":
					href = attr.Val
				}
			}
			if rel == "image_src" && image == "" {
				image = href
			}
		}
	}

	if video != "" {
		return video, nil
	}
	return image, nil
}
