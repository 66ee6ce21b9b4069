package council

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"havenrp-web/internal/config"
	"havenrp-web/internal/domain"
	"havenrp-web/pkg/errors"
	"havenrp-web/pkg/logger"
)

// maxGetAttempts bounds the retry budget for idempotent reads. Mutating
// calls are never retried; the remote service is not guaranteed to be
// idempotent and a duplicate nominate/vote would surface as a conflict.
const maxGetAttempts = 2

// Client is the typed adapter for the remote campaign service's /council
// routes. Every request carries the static service API key; authenticated
// operations additionally carry the caller's bearer token, taken fresh per
// call and never cached here.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new council client
func NewClient(cfg *config.Config, logger *logger.Logger) *Client {
	return &Client{
		baseURL: cfg.HavenAPIURL,
		apiKey:  cfg.HavenAPIKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Response envelopes used by the remote service

type campaignsEnvelope struct {
	Data struct {
		Campaigns []domain.Campaign `json:"campaigns"`
	} `json:"data"`
}

type campaignEnvelope struct {
	Data struct {
		Campaign domain.Campaign `json:"campaign"`
	} `json:"data"`
}

type nomineesEnvelope struct {
	Data struct {
		Nominees []domain.Nominee `json:"nominees"`
	} `json:"data"`
}

type nominationEnvelope struct {
	Data struct {
		Nomination *domain.Nomination `json:"nomination"`
	} `json:"data"`
}

type voteEnvelope struct {
	Data struct {
		Vote *domain.Vote `json:"vote"`
	} `json:"data"`
}

type failureBody struct {
	Message string `json:"message"`
}

// ListCampaigns fetches campaigns, optionally filtered by status and
// including closed ones
func (c *Client) ListCampaigns(ctx context.Context, filter domain.CampaignFilter) ([]domain.Campaign, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.IncludeClosed {
		query.Set("include_closed", "true")
	}

	path := "/council/campaigns"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var envelope campaignsEnvelope
	if err := c.do(ctx, http.MethodGet, path, "", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.Campaigns, nil
}

// GetCampaign fetches a single campaign by id
func (c *Client) GetCampaign(ctx context.Context, campaignID int64) (*domain.Campaign, error) {
	var envelope campaignEnvelope
	if err := c.do(ctx, http.MethodGet, c.campaignPath(campaignID, ""), "", nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data.Campaign, nil
}

// ListNominees fetches the nominee aggregates for a campaign. Ordering is
// unspecified here; ranking is a presentation concern of the caller.
func (c *Client) ListNominees(ctx context.Context, campaignID int64) ([]domain.Nominee, error) {
	var envelope nomineesEnvelope
	if err := c.do(ctx, http.MethodGet, c.campaignPath(campaignID, "nominees"), "", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.Nominees, nil
}

// GetMyNomination fetches the caller's own nomination for a campaign. A 404
// from the remote service means the caller has not nominated yet and is
// reported as (nil, nil), not as an error.
func (c *Client) GetMyNomination(ctx context.Context, campaignID int64, token string) (*domain.Nomination, error) {
	var envelope nominationEnvelope
	err := c.do(ctx, http.MethodGet, c.campaignPath(campaignID, "my-nomination"), token, nil, &envelope)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return envelope.Data.Nomination, nil
}

// GetMyVote fetches the caller's own vote for a campaign; 404 is absence
func (c *Client) GetMyVote(ctx context.Context, campaignID int64, token string) (*domain.Vote, error) {
	var envelope voteEnvelope
	err := c.do(ctx, http.MethodGet, c.campaignPath(campaignID, "my-vote"), token, nil, &envelope)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return envelope.Data.Vote, nil
}

// CreateCampaign creates a new campaign; requires a privileged caller
func (c *Client) CreateCampaign(ctx context.Context, req *domain.CreateCampaignRequest, token string) (*domain.Campaign, error) {
	var envelope campaignEnvelope
	if err := c.do(ctx, http.MethodPost, "/council/campaigns", token, req, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data.Campaign, nil
}

// UpdateCampaign patches campaign fields; requires a privileged caller
func (c *Client) UpdateCampaign(ctx context.Context, campaignID int64, req *domain.UpdateCampaignRequest, token string) (*domain.Campaign, error) {
	var envelope campaignEnvelope
	if err := c.do(ctx, http.MethodPatch, c.campaignPath(campaignID, ""), token, req, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data.Campaign, nil
}

// DeleteCampaign deletes a campaign and, remotely, all of its nominations
// and votes. Irreversible.
func (c *Client) DeleteCampaign(ctx context.Context, campaignID int64, token string) error {
	return c.do(ctx, http.MethodDelete, c.campaignPath(campaignID, ""), token, nil, nil)
}

type nominatePayload struct {
	NomineeDiscordID string `json:"nominee_discord_id"`
}

// Nominate submits a nomination on behalf of the authenticated caller. The
// remote service owns the nomination limit, the self-nomination flag and the
// phase gate; violations come back as conflicts.
func (c *Client) Nominate(ctx context.Context, campaignID int64, nomineeDiscordID, token string) (*domain.Nomination, error) {
	var envelope nominationEnvelope
	payload := nominatePayload{NomineeDiscordID: nomineeDiscordID}
	if err := c.do(ctx, http.MethodPost, c.campaignPath(campaignID, "nominate"), token, payload, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.Nomination, nil
}

// Vote submits the caller's vote. One vote per campaign; duplicates and
// phase mismatches come back as conflicts.
func (c *Client) Vote(ctx context.Context, campaignID int64, nomineeDiscordID, token string) (*domain.Vote, error) {
	var envelope voteEnvelope
	payload := nominatePayload{NomineeDiscordID: nomineeDiscordID}
	if err := c.do(ctx, http.MethodPost, c.campaignPath(campaignID, "vote"), token, payload, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.Vote, nil
}

func (c *Client) campaignPath(campaignID int64, suffix string) string {
	path := "/council/campaigns/" + strconv.FormatInt(campaignID, 10)
	if suffix != "" {
		path += "/" + suffix
	}
	return path
}

// do executes one request against the remote service, retrying idempotent
// GETs once on network failure or 5xx, and decodes the response into out
// when out is non-nil.
func (c *Client) do(ctx context.Context, method, path, token string, body interface{}, out interface{}) error {
	var jsonBody []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.NewInternalError("failed to marshal request body", err)
		}
		jsonBody = encoded
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = maxGetAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		var reader io.Reader
		if jsonBody != nil {
			reader = bytes.NewReader(jsonBody)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return errors.NewInternalError("failed to create request", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)
		if jsonBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = errors.NewExternalError("campaign service unreachable", err)
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"method":  method,
				"path":    path,
				"attempt": attempt,
			}).Warn("Campaign service request failed")
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = errors.NewExternalError("failed to read campaign service response", readErr)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if out == nil || len(respBody) == 0 {
				return nil
			}
			if err := json.Unmarshal(respBody, out); err != nil {
				c.logger.WithError(err).WithFields(map[string]interface{}{
					"path":        path,
					"status_code": resp.StatusCode,
				}).Error("Failed to parse campaign service response")
				return errors.NewExternalError("failed to parse campaign service response", err)
			}
			return nil
		}

		appErr := c.statusToError(resp.StatusCode, respBody)
		if resp.StatusCode >= 500 {
			lastErr = appErr
			continue
		}
		return appErr
	}

	return lastErr
}

// statusToError maps a non-2xx response onto the application error
// taxonomy. The remote failure body is {message}; when present the message
// is surfaced verbatim.
func (c *Client) statusToError(statusCode int, body []byte) *errors.AppError {
	message := fmt.Sprintf("request failed (status %d)", statusCode)
	var failure failureBody
	if err := json.Unmarshal(body, &failure); err == nil && failure.Message != "" {
		message = failure.Message
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return errors.NewAuthenticationError(message)
	case http.StatusForbidden:
		return errors.NewAuthorizationError(message)
	case http.StatusNotFound:
		return errors.NewNotFoundError(message)
	case http.StatusConflict:
		return errors.NewConflictError(message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errors.NewValidationError(message, nil)
	default:
		return errors.NewExternalError(message, fmt.Errorf("campaign service returned status %d", statusCode))
	}
}
