package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePostingHTML = `<!DOCTYPE html>
<html>
<head>
	<title>Acme Corp Careers</title>
	<meta property="og:title" content="Senior Go Engineer">
	<meta property="og:site_name" content="Acme Corp">
</head>
<body>
	<nav>Home | Jobs | About</nav>
	<div class="job-description">
		<h1>Senior Go Engineer</h1>
		<p>Build and operate backend services in Go.</p>

		<p>Requirements: 5+ years of Go.</p>
	</div>
	<footer>Copyright Acme</footer>
</body>
</html>`

func TestParseJobPosting(t *testing.T) {
	posting, err := ParseJobPosting(samplePostingHTML)
	require.NoError(t, err)

	assert.Equal(t, "Senior Go Engineer", posting.Title)
	assert.Equal(t, "Acme Corp", posting.Company)
	assert.Contains(t, posting.Description, "Build and operate backend services in Go.")
	assert.NotContains(t, posting.Description, "Home | Jobs", "nav noise should be stripped")
	assert.NotContains(t, posting.Description, "Copyright", "footer noise should be stripped")
}

func TestParseJobPosting_TitleFallbacks(t *testing.T) {
	withH1 := `<html><head><title>Careers</title></head><body><h1>Staff Engineer</h1><p>text</p></body></html>`
	posting, err := ParseJobPosting(withH1)
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", posting.Title)

	titleOnly := `<html><head><title>Platform Engineer - Jobs</title></head><body><p>text</p></body></html>`
	posting, err = ParseJobPosting(titleOnly)
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineer - Jobs", posting.Title)
}

func TestParseJobPosting_CompanySelectorFallback(t *testing.T) {
	html := `<html><body><span class="company-name">Initech</span><main>details</main></body></html>`
	posting, err := ParseJobPosting(html)
	require.NoError(t, err)
	assert.Equal(t, "Initech", posting.Company)
}

func TestFetchJobPosting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePostingHTML))
	}))
	defer server.Close()

	posting, err := FetchJobPosting(context.Background(), server.URL, nil)
	require.NoError(t, err)

	assert.Equal(t, server.URL, posting.URL)
	assert.Equal(t, "Senior Go Engineer", posting.Title)
	assert.NotEmpty(t, posting.Hash)
	assert.False(t, posting.FetchedAt.IsZero())

	link := posting.Link()
	assert.Equal(t, JobID(server.URL), link.JobID)
	assert.Equal(t, "Senior Go Engineer", link.Title)
	assert.Equal(t, "Acme Corp", link.Company)
}

func TestFetchJobPosting_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := FetchJobPosting(context.Background(), server.URL, nil)
	require.Error(t, err)

	fetchErr, ok := err.(*Error)
	require.True(t, ok, "error should be ingestion Error type")
	assert.Contains(t, fetchErr.Message, "404")
}

func TestFetchJobPosting_InvalidURL(t *testing.T) {
	_, err := FetchJobPosting(context.Background(), "not-a-url", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestJobID_Stable(t *testing.T) {
	assert.Equal(t, JobID("https://example.com/jobs/1"), JobID("https://example.com/jobs/1"))
	assert.NotEqual(t, JobID("https://example.com/jobs/1"), JobID("https://example.com/jobs/2"))
	assert.Len(t, JobID("anything"), 12)
}
