package domain

// TebexCurrency is the webstore's configured currency
type TebexCurrency struct {
	ISO    string `json:"iso"`
	Symbol string `json:"symbol"`
}

// TebexAccount is the webstore account block of /information
type TebexAccount struct {
	ID       int64         `json:"id"`
	Domain   string        `json:"domain"`
	Name     string        `json:"name"`
	Currency TebexCurrency `json:"currency"`
	GameType string        `json:"game_type"`
}

// TebexWebstore is the storefront information document
type TebexWebstore struct {
	ID      int64        `json:"id"`
	Account TebexAccount `json:"account"`
}

// TebexPackageCategory is the category reference embedded in a package
type TebexPackageCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TebexSale is an active discount on a package
type TebexSale struct {
	Active   bool    `json:"active"`
	Discount float64 `json:"discount"`
}

// TebexPackage is a purchasable storefront package
type TebexPackage struct {
	ID              int64                `json:"id"`
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	Image           *string              `json:"image"`
	Price           float64              `json:"price"`
	Type            string               `json:"type"`
	Category        TebexPackageCategory `json:"category"`
	Disabled        bool                 `json:"disabled"`
	DisableQuantity bool                 `json:"disable_quantity"`
	ExpiryLength    *int                 `json:"expiry_length"`
	ExpiryPeriod    *string              `json:"expiry_period"`
	Sale            *TebexSale           `json:"sale"`
}

// TebexCategory is a storefront category; Packages is populated only when a
// single category is fetched with its packages included
type TebexCategory struct {
	ID                int64          `json:"id"`
	Name              string         `json:"name"`
	Order             int            `json:"order"`
	OnlySubcategories bool           `json:"only_subcategories"`
	Subcategories     []int64        `json:"subcategories"`
	Packages          []TebexPackage `json:"packages,omitempty"`
}
