package fbclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	fbdomain "github.com/adscope/unified-ads-mcp/infrastructure/integrator/facebook/domain"
	"github.com/adscope/unified-ads-mcp/internal/config"
	"github.com/adscope/unified-ads-mcp/pkg/utils"
)

// refreshMargin is the safety window before expiry in which the token is
// refreshed eagerly.
const refreshMargin = 5 * time.Minute

// ErrTokenRefreshed signals that the token was renewed after an expired-token
// reply and the original request should be retried once.
var ErrTokenRefreshed = errors.New("token refreshed, retry the request")

// TokenManager holds the Graph API access token and renews it eagerly when
// it approaches expiry. Refresh is re-entrant safe: the mutex plus the
// expiry re-check prevent double refresh inside the safety window.
type TokenManager struct {
	cfg *config.Config

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		cfg:         cfg,
		accessToken: cfg.Facebook.AccessToken,
	}
}

// Token returns the current access token.
func (tm *TokenManager) Token() string {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.accessToken
}

// EnsureValidToken refreshes the token when it is within the safety margin
// of its expiry. A zero expiry means the token age is unknown; it is
// exchanged once to learn its lifetime.
func (tm *TokenManager) EnsureValidToken(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.accessToken == "" {
		return errors.New("facebook: access token not configured")
	}

	if !tm.expiresAt.IsZero() && time.Until(tm.expiresAt) > refreshMargin {
		return nil
	}

	return tm.refreshLocked(ctx)
}

// RefreshToken forces a token exchange.
func (tm *TokenManager) RefreshToken(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.refreshLocked(ctx)
}

func (tm *TokenManager) refreshLocked(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/oauth/access_token", tm.cfg.Facebook.URL)

	params := url.Values{}
	params.Add("grant_type", "fb_exchange_token")
	params.Add("client_id", tm.cfg.Facebook.AppID)
	params.Add("client_secret", tm.cfg.Facebook.AppSecret)
	params.Add("fb_exchange_token", tm.accessToken)

	body, err := utils.MakeRequest(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		if containsPermanentAuthFailure(err.Error()) {
			return errors.Wrap(err, "facebook: token expired permanently, reauthorization required")
		}
		return errors.Wrap(err, "facebook: token exchange failed")
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return errors.Wrap(err, "facebook: decoding token exchange reply")
	}
	if tokenResp.AccessToken == "" {
		return errors.New("facebook: token exchange returned an empty token")
	}

	tm.accessToken = tokenResp.AccessToken
	tm.expiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	logrus.WithField("expires_at", tm.expiresAt.Format(time.RFC3339)).
		Info("facebook: access token refreshed")

	return nil
}

// HandleResponse reads the body and maps Graph API error envelopes. Expired
// tokens trigger one refresh and return ErrTokenRefreshed so the caller can
// retry.
func (tm *TokenManager) HandleResponse(ctx context.Context, resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "facebook: reading response body")
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	var errorResp fbdomain.ErrorResponse
	if jsonErr := json.Unmarshal(body, &errorResp); jsonErr == nil && errorResp.IsTokenExpired() {
		logrus.WithFields(logrus.Fields{
			"code":    errorResp.Error.Code,
			"subcode": errorResp.Error.ErrorSubcode,
		}).Warn("facebook: expired token reported by API, refreshing")

		if refreshErr := tm.RefreshToken(ctx); refreshErr != nil {
			return nil, errors.Wrap(refreshErr, "facebook: refreshing expired token")
		}
		return nil, ErrTokenRefreshed
	}

	if errorResp.Error.Message != "" {
		return nil, errors.Errorf("facebook: API error %d: %s", errorResp.Error.Code, errorResp.Error.Message)
	}

	return nil, errors.Errorf("facebook: API error, status %d: %s", resp.StatusCode, string(body))
}

func containsPermanentAuthFailure(message string) bool {
	return strings.Contains(message, "Error validating access token") ||
		strings.Contains(message, "Session has expired") ||
		strings.Contains(message, "The session has been invalidated")
}
