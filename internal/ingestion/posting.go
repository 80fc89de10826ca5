package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/draft-assistant/internal/types"
)

// JobPosting is an ingested job posting.
type JobPosting struct {
	URL         string    `json:"url"`
	Title       string    `json:"title,omitempty"`
	Company     string    `json:"company,omitempty"`
	Description string    `json:"description,omitempty"`
	Hash        string    `json:"hash"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Link produces the draft-side reference to this posting. The job id is
// derived from the posting URL so the same URL always links to the same id.
func (p *JobPosting) Link() types.JobLink {
	return types.JobLink{
		JobID:   JobID(p.URL),
		Title:   p.Title,
		Company: p.Company,
	}
}

// JobID derives a stable identifier from a posting URL.
func JobID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:12]
}

// descriptionSelectors are tried in order when locating the posting body.
var descriptionSelectors = []string{
	".job-description",
	".job-content",
	"#job-description",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

// FetchJobPosting retrieves and parses a job posting from its URL.
func FetchJobPosting(ctx context.Context, urlStr string, opts *Options) (*JobPosting, error) {
	html, err := fetchHTML(ctx, urlStr, opts)
	if err != nil {
		return nil, err
	}

	posting, err := ParseJobPosting(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job posting at %s: %w", urlStr, err)
	}

	posting.URL = urlStr
	posting.Hash = contentHash(posting.Description)
	posting.FetchedAt = time.Now().UTC()
	return posting, nil
}

// ParseJobPosting extracts posting fields from raw HTML.
func ParseJobPosting(html string) (*JobPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	posting := &JobPosting{
		Title:   extractTitle(doc),
		Company: extractCompany(doc),
	}

	// Strip noise before pulling the body text
	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()

	var body *goquery.Selection
	for _, selector := range descriptionSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			body = selection.First()
			break
		}
	}
	if body == nil {
		body = doc.Find("body")
	}
	posting.Description = cleanWhitespace(body.Text())

	return posting, nil
}

// extractTitle prefers Open Graph metadata, then the first h1, then <title>.
func extractTitle(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if title := strings.TrimSpace(content); title != "" {
			return title
		}
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// extractCompany looks at Open Graph site metadata, then common hiring-page
// markup.
func extractCompany(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
		if company := strings.TrimSpace(content); company != "" {
			return company
		}
	}
	for _, selector := range []string{".company-name", "[data-company]", ".employer"} {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// cleanWhitespace drops blank lines and trims every remaining line.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func contentHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
