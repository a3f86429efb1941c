package ebay

// InventoryItem is the marketplace-side canonical product content, keyed by
// SKU and replaced wholesale on every upsert.
type InventoryItem struct {
	SKU          string        `json:"sku,omitempty"`
	Locale       string        `json:"locale,omitempty"`
	Condition    string        `json:"condition,omitempty"`
	Product      *Product      `json:"product,omitempty"`
	Availability *Availability `json:"availability,omitempty"`
}

// Product holds product details within an inventory item.
type Product struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	ImageURLs   []string            `json:"imageUrls,omitempty"`
	Aspects     map[string][]string `json:"aspects"`
}

// Availability holds inventory availability.
type Availability struct {
	ShipToLocationAvailability *ShipToLocation `json:"shipToLocationAvailability,omitempty"`
}

// ShipToLocation holds quantity info.
type ShipToLocation struct {
	Quantity int `json:"quantity"`
}

// Offer is a sellable listing draft tied to a SKU.
type Offer struct {
	OfferID             string           `json:"offerId,omitempty"`
	SKU                 string           `json:"sku,omitempty"`
	MarketplaceID       string           `json:"marketplaceId,omitempty"`
	Format              string           `json:"format,omitempty"`
	AvailableQuantity   int              `json:"availableQuantity"`
	CategoryID          string           `json:"categoryId,omitempty"`
	ListingDescription  string           `json:"listingDescription,omitempty"`
	PricingSummary      *PricingSummary  `json:"pricingSummary,omitempty"`
	ListingPolicies     *ListingPolicies `json:"listingPolicies,omitempty"`
	MerchantLocationKey string           `json:"merchantLocationKey,omitempty"`
	Status              string           `json:"status,omitempty"`
}

// PricingSummary holds pricing info.
type PricingSummary struct {
	Price *Amount `json:"price,omitempty"`
}

// Amount holds monetary values.
type Amount struct {
	Value    string `json:"value,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// ListingPolicies holds the business policy references an offer lists under.
type ListingPolicies struct {
	FulfillmentPolicyID string `json:"fulfillmentPolicyId,omitempty"`
	PaymentPolicyID     string `json:"paymentPolicyId,omitempty"`
	ReturnPolicyID      string `json:"returnPolicyId,omitempty"`
}

// OffersResponse is the response from the offer query endpoint.
type OffersResponse struct {
	Offers []Offer `json:"offers,omitempty"`
	Total  int     `json:"total,omitempty"`
}

// Location is a merchant fulfillment location.
type Location struct {
	MerchantLocationKey string   `json:"merchantLocationKey,omitempty"`
	Name                string   `json:"name,omitempty"`
	LocationTypes       []string `json:"locationTypes,omitempty"`
	Phone               string   `json:"phone,omitempty"`
	Address             *Address `json:"address,omitempty"`
}

// Address holds the postal address of a location.
type Address struct {
	AddressLine1    string `json:"addressLine1,omitempty"`
	City            string `json:"city,omitempty"`
	StateOrProvince string `json:"stateOrProvince,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
	Country         string `json:"country,omitempty"`
}
