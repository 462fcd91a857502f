package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rohit-roe/coursegen/types"
)

const duckduckgoPage = `<!DOCTYPE html>
<html><body>
<div class="results">
  <div class="result">
    <h2 class="result__title">
      <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Ftour%2F&amp;rut=abc">A Tour of Go</a>
    </h2>
    <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Ftour%2F">An interactive introduction to Go in three sections.</a>
  </div>
  <div class="result">
    <h2 class="result__title">
      <a class="result__a" href="https://gobyexample.com/">Go by Example</a>
    </h2>
    <a class="result__snippet" href="https://gobyexample.com/">Hands-on introduction using annotated example programs.</a>
  </div>
  <div class="result">
    <h2 class="result__title">
      <a class="result__a" href="javascript:void(0)">Broken entry</a>
    </h2>
  </div>
</div>
</body></html>`

func TestWebSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "go basics tutorial guide", r.PostForm.Get("q"))
		w.Write([]byte(duckduckgoPage))
	}))
	defer srv.Close()

	s := newTestService(t, Config{DuckDuckGoURL: srv.URL})
	resources := s.Web(context.Background(), "go basics", 3)

	require.Len(t, resources, 2, "entry without a usable URL must be skipped")

	assert.Equal(t, "A Tour of Go", resources[0].Title)
	assert.Equal(t, "https://go.dev/tour/", resources[0].URL, "redirect link must be unwrapped")
	assert.Equal(t, "web", resources[0].Source)
	assert.Equal(t, "An interactive introduction to Go in three sections.", resources[0].Description)

	assert.Equal(t, "Go by Example", resources[1].Title)
	assert.Equal(t, "https://gobyexample.com/", resources[1].URL)
}

func TestWebSearchMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(duckduckgoPage))
	}))
	defer srv.Close()

	s := newTestService(t, Config{DuckDuckGoURL: srv.URL})
	resources := s.Web(context.Background(), "go basics", 1)
	assert.Len(t, resources, 1)
}

func TestWebFallbackLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := newTestService(t, Config{DuckDuckGoURL: srv.URL})
	resources := s.Web(context.Background(), "go basics", 3)

	require.Len(t, resources, 1)
	assert.Equal(t, "Search: go basics", resources[0].Title)
	assert.Equal(t, "https://duckduckgo.com/?q=go+basics", resources[0].URL)
}

func TestResolveRedirect(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{name: "uddg redirect", href: "//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F&rut=x", want: "https://go.dev/"},
		{name: "direct https", href: "https://gobyexample.com/", want: "https://gobyexample.com/"},
		{name: "javascript link rejected", href: "javascript:void(0)", want: ""},
		{name: "empty", href: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveRedirect(tt.href))
		})
	}
}

func TestDedupe(t *testing.T) {
	in := []types.Resource{
		{Title: "A", URL: "https://a.example"},
		{Title: "B", URL: "https://b.example"},
		{Title: "A again", URL: "https://a.example"},
	}

	out := Dedupe(in)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Title)
	assert.Equal(t, "B", out[1].Title)
}

func TestTruncateDescription(t *testing.T) {
	long := strings.Repeat("x", 500)
	assert.Len(t, truncateDescription(long), descriptionLimit)
	assert.Equal(t, "short", truncateDescription("short"))
}
