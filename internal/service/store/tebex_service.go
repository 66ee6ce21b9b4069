package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"havenrp-web/internal/config"
	"havenrp-web/internal/domain"
	"havenrp-web/pkg/errors"
	"havenrp-web/pkg/logger"
)

// Service is the thin proxy over the Tebex Headless storefront API. Tebex
// owns all store state and payment processing; this side only reads.
type Service struct {
	baseURL     string
	publicToken string
	httpClient  *http.Client
	logger      *logger.Logger
}

// NewService creates a new storefront service
func NewService(cfg *config.Config, logger *logger.Logger) *Service {
	return &Service{
		baseURL:     cfg.TebexBaseURL,
		publicToken: cfg.TebexPublicToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// GetWebstore fetches the webstore information document
func (s *Service) GetWebstore(ctx context.Context) (*domain.TebexWebstore, error) {
	var webstore domain.TebexWebstore
	if err := s.get(ctx, "/information", &webstore); err != nil {
		return nil, err
	}
	return &webstore, nil
}

// ListCategories fetches all storefront categories without their packages
func (s *Service) ListCategories(ctx context.Context) ([]domain.TebexCategory, error) {
	var categories []domain.TebexCategory
	if err := s.get(ctx, "/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategory fetches one category together with its packages
func (s *Service) GetCategory(ctx context.Context, categoryID int64) (*domain.TebexCategory, error) {
	var category domain.TebexCategory
	if err := s.get(ctx, "/categories/"+strconv.FormatInt(categoryID, 10)+"?includePackages=1", &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// GetPackage fetches a single purchasable package
func (s *Service) GetPackage(ctx context.Context, packageID int64) (*domain.TebexPackage, error) {
	var pkg domain.TebexPackage
	if err := s.get(ctx, "/packages/"+strconv.FormatInt(packageID, 10), &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// dataEnvelope is the wrapper every Tebex Headless response arrives in
type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func (s *Service) get(ctx context.Context, path string, out interface{}) error {
	if s.publicToken == "" {
		return errors.NewInternalError("Tebex public token not configured", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return errors.NewInternalError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Tebex-Public-Token", s.publicToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.WithError(err).WithField("path", path).Error("Tebex request failed")
		return errors.NewExternalError("storefront unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewExternalError("failed to read storefront response", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return errors.NewNotFoundError("storefront resource not found")
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.WithFields(map[string]interface{}{
			"path":        path,
			"status_code": resp.StatusCode,
		}).Error("Tebex returned error")
		return errors.NewExternalError(
			fmt.Sprintf("storefront request failed (status %d)", resp.StatusCode),
			fmt.Errorf("tebex returned status %d", resp.StatusCode))
	}

	var envelope dataEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errors.NewExternalError("failed to parse storefront response", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return errors.NewExternalError("failed to parse storefront response", err)
	}
	return nil
}
