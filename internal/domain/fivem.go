package domain

import (
	"encoding/json"
	"fmt"
)

// CharacterMoney is the decoded money sub-document of a character
type CharacterMoney struct {
	Bank   float64 `json:"bank"`
	Crypto float64 `json:"crypto"`
	Cash   float64 `json:"cash"`
}

// CharacterInfo is the decoded charinfo sub-document
type CharacterInfo struct {
	CitizenID   json.Number `json:"citizenid"`
	Birthdate   string      `json:"birthdate"`
	Nationality string      `json:"nationality"`
	Account     string      `json:"account"`
	Firstname   string      `json:"firstname"`
	Lastname    string      `json:"lastname"`
	Gender      int         `json:"gender"`
	Backstory   string      `json:"backstory"`
	Phone       string      `json:"phone"`
	CID         int         `json:"cid"`
}

// CharacterGrade is a job or gang grade
type CharacterGrade struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// CharacterJob is the decoded job sub-document
type CharacterJob struct {
	Name    string         `json:"name"`
	Label   string         `json:"label"`
	Grade   CharacterGrade `json:"grade"`
	Payment float64        `json:"payment"`
	IsBoss  bool           `json:"isboss"`
	OnDuty  bool           `json:"onduty"`
}

// CharacterGang is the decoded gang sub-document
type CharacterGang struct {
	Name   string         `json:"name"`
	Label  string         `json:"label"`
	Grade  CharacterGrade `json:"grade"`
	IsBoss bool           `json:"isboss"`
}

// Character is a FiveM character row as the game-server API returns it. The
// money/charinfo/job/gang columns arrive as JSON-encoded strings.
type Character struct {
	ID            int64   `json:"id"`
	CitizenID     string  `json:"citizenid"`
	CID           int     `json:"cid"`
	Name          string  `json:"name"`
	Money         string  `json:"money"`
	CharInfo      string  `json:"charinfo"`
	Job           string  `json:"job"`
	Gang          string  `json:"gang"`
	PhoneNumber   *string `json:"phone_number"`
	LastUpdated   string  `json:"last_updated"`
	LastLoggedOut string  `json:"last_logged_out"`
	Health        int     `json:"health"`
	Armor         int     `json:"armor"`
	Jail          int     `json:"jail"`
	Badge         *string `json:"badge"`
}

// ParsedCharacter carries a Character together with its decoded sub-documents
type ParsedCharacter struct {
	Character
	MoneyData    CharacterMoney `json:"money_data"`
	CharInfoData CharacterInfo  `json:"charinfo_data"`
	JobData      CharacterJob   `json:"job_data"`
	GangData     CharacterGang  `json:"gang_data"`
}

// Parse decodes the JSON-encoded sub-documents of c
func (c Character) Parse() (*ParsedCharacter, error) {
	parsed := &ParsedCharacter{Character: c}

	if err := json.Unmarshal([]byte(c.Money), &parsed.MoneyData); err != nil {
		return nil, fmt.Errorf("failed to decode money for %s: %w", c.CitizenID, err)
	}
	if err := json.Unmarshal([]byte(c.CharInfo), &parsed.CharInfoData); err != nil {
		return nil, fmt.Errorf("failed to decode charinfo for %s: %w", c.CitizenID, err)
	}
	if err := json.Unmarshal([]byte(c.Job), &parsed.JobData); err != nil {
		return nil, fmt.Errorf("failed to decode job for %s: %w", c.CitizenID, err)
	}
	if err := json.Unmarshal([]byte(c.Gang), &parsed.GangData); err != nil {
		return nil, fmt.Errorf("failed to decode gang for %s: %w", c.CitizenID, err)
	}

	return parsed, nil
}

// Vehicle is a character-owned vehicle
type Vehicle struct {
	Plate      string  `json:"plate"`
	Fuel       float64 `json:"fuel"`
	Engine     float64 `json:"engine"`
	Body       float64 `json:"body"`
	Favourite  int     `json:"favourite"`
	Mileage    float64 `json:"mileage"`
	Brand      *string `json:"brand"`
	Model      *string `json:"model"`
	Category   *string `json:"category"`
	Dealership *string `json:"dealership"`
}

// InventoryItem is one stack inside a vehicle storage compartment
type InventoryItem struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

// VehicleInventory is the decoded glovebox/trunk contents of one vehicle
type VehicleInventory struct {
	Plate    string          `json:"plate"`
	Brand    string          `json:"brand"`
	Model    string          `json:"model"`
	Glovebox []InventoryItem `json:"glovebox"`
	Trunk    []InventoryItem `json:"trunk"`
}
