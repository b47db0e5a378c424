package dataimporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/buslane/buslane/pkg/util"
)

var (
	// ErrUpstreamTimeout marks a feed fetch that ran out of time.
	ErrUpstreamTimeout = errors.New("feed source timed out")
	// ErrUpstreamStatus marks a non-success response from the feed source.
	ErrUpstreamStatus = errors.New("feed source request failed")
)

const defaultFeedBaseURL = "https://api.transport.nsw.gov.au/v1/gtfs/schedule"

const feedFetchTimeout = 60 * time.Second

// FeedSource fetches a compressed transit feed for one (mode, agency)
// pair.
type FeedSource interface {
	Fetch(ctx context.Context, mode string, agencyID string) ([]byte, error)
}

// TransportAPISource downloads GTFS schedule bundles from the transit
// open-data platform, authenticated with an operator API key.
type TransportAPISource struct {
	BaseURL string
	APIKey  string

	client *http.Client
}

func NewTransportAPISource() *TransportAPISource {
	env := util.GetEnvironmentVariables()

	baseURL := defaultFeedBaseURL
	if env["BUSLANE_GTFS_BASE_URL"] != "" {
		baseURL = env["BUSLANE_GTFS_BASE_URL"]
	}

	return &TransportAPISource{
		BaseURL: baseURL,
		APIKey:  env["BUSLANE_TRANSPORT_API_KEY"],
		client: &http.Client{
			Timeout: feedFetchTimeout,
		},
	}
}

func (s *TransportAPISource) Fetch(ctx context.Context, mode string, agencyID string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/%s", s.BaseURL, mode, agencyID)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Authorization", fmt.Sprintf("apikey %s", s.APIKey))

	response, err := s.client.Do(request)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, fmt.Errorf("%w: %s", ErrUpstreamTimeout, url)
		}

		return nil, fmt.Errorf("%w: %s", ErrUpstreamStatus, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrUpstreamStatus, response.StatusCode, url)
	}

	return io.ReadAll(response.Body)
}
