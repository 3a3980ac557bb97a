package daily

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/wordseek/seekengine/utils"
)

// ErrEnrichmentUnavailable means no details could be fetched for a word. The
// puzzle is still created without them.
var ErrEnrichmentUnavailable = errors.New("word enrichment unavailable")

// WordDetails is the optional dictionary data stored with a puzzle.
type WordDetails struct {
	Meaning  string `json:"meaning"`
	Phonetic string `json:"phonetic"`
	Example  string `json:"sentence"`
}

// Enricher looks up details for a word.
type Enricher interface {
	Enrich(ctx context.Context, word string) (*WordDetails, error)
}

// HTTPEnricher calls a details service: GET {endpoint}?word=xxx returning
// {"word","phonetic","meaning","sentence"}.
type HTTPEnricher struct {
	endpoint string
	client   *http.Client
}

// EnricherConfig configures NewHTTPEnricher. With ClientID set, requests carry
// an OAuth2 client-credentials token from TokenURL.
type EnricherConfig struct {
	Endpoint     string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

func NewHTTPEnricher(cfg EnricherConfig) *HTTPEnricher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	if cfg.ClientID != "" && cfg.TokenURL != "" {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		client = cc.Client(context.Background())
		client.Timeout = timeout
	}
	return &HTTPEnricher{endpoint: cfg.Endpoint, client: client}
}

func (h *HTTPEnricher) Enrich(ctx context.Context, word string) (*WordDetails, error) {
	u, err := url.Parse(h.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: bad endpoint: %v", ErrEnrichmentUnavailable, err)
	}
	q := u.Query()
	q.Set("word", word)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnrichmentUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnrichmentUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrEnrichmentUnavailable, resp.StatusCode)
	}
	var body struct {
		Word string `json:"word"`
		WordDetails
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrEnrichmentUnavailable, err)
	}
	d := &WordDetails{
		Meaning:  utils.SanitizeText(body.Meaning),
		Phonetic: utils.SanitizeText(body.Phonetic),
		Example:  utils.SanitizeText(body.Example),
	}
	if d.Meaning == "" {
		return nil, fmt.Errorf("%w: empty meaning", ErrEnrichmentUnavailable)
	}
	return d, nil
}
