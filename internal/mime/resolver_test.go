package mime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestResolve_Youtube(t *testing.T) {
	r := New()
	u := "https://youtu.be/dQw4w9WgXcQ"
	got, ctype, err := r.Resolve(context.Background(), u)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != u || ctype != "video/x-youtube" {
		t.Fatalf("got (%q, %q)", got, ctype)
	}
}

func TestResolve_YoutubeWatchURL(t *testing.T) {
	r := New()
	_, ctype, err := r.Resolve(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil || ctype != "video/x-youtube" {
		t.Fatalf("got (%q, %v)", ctype, err)
	}
}

func TestResolve_GifvRewrite(t *testing.T) {
	r := New()
	got, ctype, err := r.Resolve(context.Background(), "https://i.imgur.com/abc123.gifv")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://i.imgur.com/abc123.webm" || ctype != "video/webm" {
		t.Fatalf("got (%q, %q)", got, ctype)
	}
}

func TestResolve_GenericExtension(t *testing.T) {
	r := New()
	u := "https://example.com/file.png"
	got, ctype, err := r.Resolve(context.Background(), u)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != u || ctype != "image/png" {
		t.Fatalf("got (%q, %q)", got, ctype)
	}
}

func TestResolve_NoExtensionFallsBack(t *testing.T) {
	r := New()
	u := "https://example.com/unknown"
	got, ctype, err := r.Resolve(context.Background(), u)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != u || ctype != "" {
		t.Fatalf("expected browser fallback, got (%q, %q)", got, ctype)
	}
}

func TestResolve_QueryStringIgnoredForExtension(t *testing.T) {
	r := New()
	_, ctype, err := r.Resolve(context.Background(), "https://example.com/clip.mp4?t=30")
	if err != nil || ctype != "video/mp4" {
		t.Fatalf("got (%q, %v)", ctype, err)
	}
}

// rewriteTransport sends every request to the test server regardless of the
// requested host, so handlers keyed on real hostnames can be exercised.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func testResolver(t *testing.T, handler http.Handler) *Resolver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	target, _ := url.Parse(srv.URL)
	return NewWithClient(&http.Client{Transport: rewriteTransport{target: target}})
}

func TestResolve_ImgurPageScrape(t *testing.T) {
	r := testResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`<html><head>
			<meta property="og:image" content="https://i.imgur.com/abc123.jpg"/>
			</head><body></body></html>`))
	}))

	got, ctype, err := r.Resolve(context.Background(), "https://imgur.com/gallery/abc123")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://i.imgur.com/abc123.jpg" || ctype != "image/jpeg" {
		t.Fatalf("got (%q, %q)", got, ctype)
	}
}

func TestResolve_ImgurPagePrefersVideo(t *testing.T) {
	r := testResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`<html><head>
			<meta property="og:image" content="https://i.imgur.com/abc.jpg"/>
			<meta property="og:video" content="https://i.imgur.com/abc.mp4"/>
			</head></html>`))
	}))

	got, ctype, err := r.Resolve(context.Background(), "https://imgur.com/abc")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://i.imgur.com/abc.mp4" || ctype != "video/mp4" {
		t.Fatalf("got (%q, %q)", got, ctype)
	}
}

func TestResolve_ImgurScrapeRecursesIntoGifvOnce(t *testing.T) {
	r := testResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`<html><head>
			<meta property="og:image" content="https://i.imgur.com/xyz.gifv"/>
			</head></html>`))
	}))

	got, ctype, err := r.Resolve(context.Background(), "https://imgur.com/gallery/xyz")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://i.imgur.com/xyz.webm" || ctype != "video/webm" {
		t.Fatalf("scraped gifv should rewrite to webm: got (%q, %q)", got, ctype)
	}
}

func TestResolve_ImgurFetchFailureDoesNotFallThrough(t *testing.T) {
	r := testResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))

	_, _, err := r.Resolve(context.Background(), "https://imgur.com/gallery/gone")
	if !errors.Is(err, ErrResolution) {
		t.Fatalf("chosen handler's failure must surface, got %v", err)
	}
}

func TestResolve_RedditUploadsHead(t *testing.T) {
	r := testResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", req.Method)
		}
		w.Header().Set("Content-Type", "image/jpeg; charset=utf-8")
	}))

	u := "https://i.reddituploads.com/some-opaque-id"
	got, ctype, err := r.Resolve(context.Background(), u)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != u || ctype != "image/jpeg" {
		t.Fatalf("got (%q, %q)", got, ctype)
	}
}

func TestResolve_HandlerPriority(t *testing.T) {
	// A URL matching both the imgur page pattern and the generic fallback
	// must go to the imgur handler, never the fallback.
	called := false
	r := testResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		called = true
		w.Write([]byte(`<html><head><meta property="og:image" content="https://i.imgur.com/z.png"/></head></html>`))
	}))

	_, ctype, err := r.Resolve(context.Background(), "https://imgur.com/gallery/z")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !called {
		t.Fatal("gallery handler was not consulted")
	}
	if ctype != "image/png" {
		t.Fatalf("got %q", ctype)
	}
}
