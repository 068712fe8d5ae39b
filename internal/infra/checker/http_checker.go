package checker

import (
	"context"
	"net/http"
	"strings"
	"time"

	model "go_purl_tools/internal/domain/model/purl_rule"
)

// Observation 对目标主机一次重定向探测的原始结果
type Observation struct {
	StatusCode int
	Location   string
}

// RedirectCheckerIface 重定向探测接口
type RedirectCheckerIface interface {
	// Check issues a single HEAD request for path against domain and reports
	// the immediate response without following redirects. One observation is
	// authoritative per run; no automatic retries.
	Check(ctx context.Context, domain, path string) (*Observation, error)
}

type HTTPChecker struct {
	client *http.Client
}

var _ RedirectCheckerIface = (*HTTPChecker)(nil)

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		client: &http.Client{
			Timeout: timeout,
			// 只观察第一跳，不跟随重定向
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *HTTPChecker) Check(ctx context.Context, domain, path string) (*Observation, error) {
	url := buildURL(domain, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, &model.TransportError{URL: url, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &model.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	return &Observation{
		StatusCode: resp.StatusCode,
		Location:   resp.Header.Get("Location"),
	}, nil
}

func buildURL(domain, path string) string {
	if !strings.Contains(domain, "://") {
		domain = "http://" + domain
	}
	return strings.TrimSuffix(domain, "/") + path
}
