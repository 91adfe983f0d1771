package collectors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Acme Robotics — Industrial Automation</title>
  <meta name="description" content="Acme builds robotic arms for small factories.">
  <meta property="og:title" content="Acme Robotics">
  <meta property="og:description" content="Robotic arms for small factories">
  <meta property="og:image" content="https://acme.example/og.png">
  <meta name="twitter:card" content="summary_large_image">
  <script type="application/ld+json">
  {"@context": "https://schema.org", "@type": "Organization", "name": "Acme Robotics"}
  </script>
  <script type="application/ld+json">
  {"@context": "https://schema.org", "@graph": [{"@type": "WebSite"}, {"@type": ["Product", "Thing"]}]}
  </script>
</head>
<body>
  <main>
    <h1>Automation for everyone</h1>
    <h2>Precision arms</h2>
    <h2>Simple setup</h2>
    <script>console.log("should not count")</script>
    <p>Acme builds affordable robotic arms that install in under an hour.</p>
  </main>
</body>
</html>`

func newScraperServer(t *testing.T, robotsStatus, sitemapStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(robotsStatus)
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(sitemapStatus)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestScraper_Scrape(t *testing.T) {
	server := newScraperServer(t, http.StatusOK, http.StatusNotFound)
	scraper := NewScraper("test-agent", 15000, 5*time.Second)

	content, schema, social, err := scraper.Scrape(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Acme Robotics — Industrial Automation", content.Title)
	assert.Equal(t, "Acme builds robotic arms for small factories.", content.MetaDescription)
	assert.Equal(t, []string{"Automation for everyone"}, content.H1)
	assert.Equal(t, []string{"Precision arms", "Simple setup"}, content.H2)
	assert.True(t, content.WordCount > 10)
	assert.NotContains(t, content.Text, "should not count")
	assert.True(t, content.RobotsTxtFound)
	assert.False(t, content.SitemapXMLFound)

	assert.True(t, schema.HasSchema)
	assert.Equal(t, 2, schema.Count)
	assert.ElementsMatch(t, []string{"Organization", "WebSite", "Product", "Thing"}, schema.SchemaTypes)
	assert.Empty(t, schema.Recommendations)

	assert.Equal(t, "Acme Robotics", social.OpenGraph.Title)
	assert.Equal(t, "summary_large_image", social.TwitterCard.Card)
	assert.True(t, social.OverallScore > 0)
}

func TestScraper_TextTruncation(t *testing.T) {
	server := newScraperServer(t, http.StatusNotFound, http.StatusNotFound)
	scraper := NewScraper("test-agent", 40, 5*time.Second)

	content, _, _, err := scraper.Scrape(context.Background(), server.URL)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(content.Text), 40)
	// WordCount reflects the full text, not the truncated prompt input.
	assert.True(t, content.WordCount > 5)
}

func TestScraper_NoSchemaNoSocial(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Bare</title></head><body><p>hello world</p></body></html>`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	scraper := NewScraper("test-agent", 15000, 5*time.Second)
	_, schema, social, err := scraper.Scrape(context.Background(), server.URL)
	require.NoError(t, err)

	assert.False(t, schema.HasSchema)
	assert.Equal(t, 0, schema.Count)
	assert.NotEmpty(t, schema.Recommendations)

	assert.Equal(t, 0, social.OverallScore)
	assert.NotEmpty(t, social.Recommendations)
}

func TestScraper_ErrorStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	scraper := NewScraper("test-agent", 15000, 5*time.Second)
	_, _, _, err := scraper.Scrape(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestScraper_RobotsHeadFallsBackToGet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	scraper := NewScraper("test-agent", 15000, 5*time.Second)
	content, _, _, err := scraper.Scrape(context.Background(), server.URL)
	require.NoError(t, err)

	assert.True(t, content.RobotsTxtFound)
}
