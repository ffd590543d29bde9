package instancer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// DefaultCheckTimeout bounds the connectivity check so an unreachable Instancer cannot hang the admin UI.
const DefaultCheckTimeout = 5 * time.Second

const configCheckPath = "/admin/config_check"

// Checker probes an Instancer's config-check endpoint with a bearer token.
type Checker struct {
	HTTPClient *http.Client
}

// NewChecker returns a Checker with its own non-shared transport and the given timeout.
// A non-positive timeout selects DefaultCheckTimeout.
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	client := cleanhttp.DefaultClient()
	client.Timeout = timeout
	return &Checker{HTTPClient: client}
}

// Check posts to <deployerURL>/admin/config_check with token as bearer credentials.
// Returns nil on 200, ErrInvalidSecret on 401, ErrRoleRejected on 403, and ErrUnreachable otherwise.
// No retries are attempted.
func (c *Checker) Check(ctx context.Context, deployerURL, token string) error {
	base := strings.TrimRight(strings.TrimSpace(deployerURL), "/")
	if base == "" {
		return fmt.Errorf("%w: empty deployer url", ErrUnreachable)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+configCheckPath, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return ErrInvalidSecret
	case http.StatusForbidden:
		return ErrRoleRejected
	default:
		return fmt.Errorf("%w: status=%d", ErrUnreachable, resp.StatusCode)
	}
}
