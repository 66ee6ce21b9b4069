package fivem

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"havenrp-web/internal/config"
	"havenrp-web/internal/domain"
	"havenrp-web/pkg/errors"
	"havenrp-web/pkg/logger"
)

// Service exposes read-only views into the FiveM server's player data via
// the game-server API. Nothing here mutates game state.
type Service struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewService creates a new FiveM view service
func NewService(cfg *config.Config, logger *logger.Logger) *Service {
	return &Service{
		baseURL: cfg.HavenAPIURL,
		apiKey:  cfg.HavenAPIKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

type charactersResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		DiscordID      string             `json:"discord_id"`
		CharacterCount int                `json:"character_count"`
		Characters     []domain.Character `json:"characters"`
	} `json:"data"`
}

type characterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Character domain.Character `json:"character"`
	} `json:"data"`
}

type vehiclesResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		CitizenID    string           `json:"citizenid"`
		VehicleCount int              `json:"vehicle_count"`
		Vehicles     []domain.Vehicle `json:"vehicles"`
	} `json:"data"`
}

type vehicleInventoryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Plate    string `json:"plate"`
		Glovebox string `json:"glovebox"`
		Trunk    string `json:"trunk"`
		Brand    string `json:"brand"`
		Model    string `json:"model"`
	} `json:"data"`
}

// ListCharacters fetches every character tied to a Discord account, with
// their JSON sub-documents decoded
func (s *Service) ListCharacters(ctx context.Context, discordID string) ([]domain.ParsedCharacter, error) {
	if discordID == "" {
		return nil, errors.NewValidationError("discord id is required", nil)
	}

	var resp charactersResponse
	if err := s.get(ctx, "/fivem/user/discord:"+discordID+"/characters", &resp); err != nil {
		return nil, err
	}

	parsed := make([]domain.ParsedCharacter, 0, len(resp.Data.Characters))
	for _, character := range resp.Data.Characters {
		p, err := character.Parse()
		if err != nil {
			s.logger.WithError(err).WithField("citizenid", character.CitizenID).Warn("Skipping character with malformed data")
			continue
		}
		parsed = append(parsed, *p)
	}
	return parsed, nil
}

// GetCharacter fetches a single character by citizen id
func (s *Service) GetCharacter(ctx context.Context, citizenID string) (*domain.ParsedCharacter, error) {
	if citizenID == "" {
		return nil, errors.NewValidationError("citizen id is required", nil)
	}

	var resp characterResponse
	if err := s.get(ctx, "/fivem/character/"+citizenID, &resp); err != nil {
		return nil, err
	}

	parsed, err := resp.Data.Character.Parse()
	if err != nil {
		return nil, errors.NewExternalError("character data malformed", err)
	}
	return parsed, nil
}

// ListVehicles fetches a character's vehicles, favourites first, then by
// plate
func (s *Service) ListVehicles(ctx context.Context, citizenID string) ([]domain.Vehicle, error) {
	if citizenID == "" {
		return nil, errors.NewValidationError("citizen id is required", nil)
	}

	var resp vehiclesResponse
	if err := s.get(ctx, "/fivem/character/"+citizenID+"/vehicles", &resp); err != nil {
		return nil, err
	}

	vehicles := resp.Data.Vehicles
	sort.SliceStable(vehicles, func(i, j int) bool {
		if vehicles[i].Favourite != vehicles[j].Favourite {
			return vehicles[i].Favourite > vehicles[j].Favourite
		}
		return vehicles[i].Plate < vehicles[j].Plate
	})
	return vehicles, nil
}

// GetVehicleInventory fetches and decodes a vehicle's glovebox and trunk
// contents
func (s *Service) GetVehicleInventory(ctx context.Context, citizenID, plate string) (*domain.VehicleInventory, error) {
	if citizenID == "" || plate == "" {
		return nil, errors.NewValidationError("citizen id and plate are required", nil)
	}

	var resp vehicleInventoryResponse
	if err := s.get(ctx, "/fivem/character/"+citizenID+"/vehicles/"+plate+"/inventory", &resp); err != nil {
		return nil, err
	}

	inventory := &domain.VehicleInventory{
		Plate: resp.Data.Plate,
		Brand: resp.Data.Brand,
		Model: resp.Data.Model,
	}
	if err := decodeItems(resp.Data.Glovebox, &inventory.Glovebox); err != nil {
		return nil, errors.NewExternalError("glovebox data malformed", err)
	}
	if err := decodeItems(resp.Data.Trunk, &inventory.Trunk); err != nil {
		return nil, errors.NewExternalError("trunk data malformed", err)
	}
	return inventory, nil
}

// decodeItems decodes a JSON-encoded item list; empty columns are treated
// as empty compartments
func decodeItems(raw string, out *[]domain.InventoryItem) error {
	if raw == "" || raw == "null" {
		*out = []domain.InventoryItem{}
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}

func (s *Service) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return errors.NewInternalError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.WithError(err).WithField("path", path).Error("FiveM API request failed")
		return errors.NewExternalError("game server API unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewExternalError("failed to read game server response", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.NewNotFoundError("character data not found")
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.NewAuthenticationError("game server API key rejected")
	case resp.StatusCode != http.StatusOK:
		return errors.NewExternalError(
			fmt.Sprintf("game server request failed (status %d)", resp.StatusCode),
			fmt.Errorf("game server returned status %d", resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.NewExternalError("failed to parse game server response", err)
	}
	return nil
}
