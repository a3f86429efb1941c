package sync

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienbonastre/woo-ebay-sync/internal/config"
	"github.com/julienbonastre/woo-ebay-sync/internal/ebay"
	"github.com/julienbonastre/woo-ebay-sync/internal/woo"
)

const testTreeID = "15"

func newTestConfig() *config.Config {
	return &config.Config{
		MarketplaceID:       "EBAY_AU",
		Currency:            "AUD",
		Condition:           "NEW",
		FulfillmentPolicyID: "fulfil-1",
		PaymentPolicyID:     "pay-1",
		ReturnPolicyID:      "ret-1",
		LocationKey:         "default-au",
		ShipName:            "Test Store",
		ShipPhone:           "0400000000",
		ShipAddressLine1:    "1 Example St",
		ShipCity:            "Brisbane",
		ShipState:           "QLD",
		ShipPostcode:        "4000",
		ShipCountry:         "AU",
	}
}

func newTestService(t *testing.T, cfg *config.Config, handler http.Handler, opts Options) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := ebay.NewClient(ebay.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RefreshToken: "refresh-token",
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/identity/v1/oauth2/token",
	})
	return NewService(cfg, client, opts), srv
}

func serveToken(mux *http.ServeMux) {
	mux.HandleFunc("POST /identity/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-token","token_type":"Bearer","expires_in":7200}`)
	})
}

// serveTaxonomy registers the category tree, a subtree lookup that accepts
// every category, and a suggestion lookup returning suggestID (no
// suggestions when empty).
func serveTaxonomy(mux *http.ServeMux, suggestID string) {
	mux.HandleFunc("GET /commerce/taxonomy/v1/get_default_category_tree_id", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"categoryTreeId":%q}`, testTreeID)
	})
	mux.HandleFunc("GET /commerce/taxonomy/v1/category_tree/"+testTreeID+"/get_category_subtree", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"categorySubtreeNode":{"category":{"categoryId":"any"}}}`)
	})
	mux.HandleFunc("GET /commerce/taxonomy/v1/category_tree/"+testTreeID+"/get_category_suggestions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if suggestID == "" {
			fmt.Fprint(w, `{"categorySuggestions":[]}`)
			return
		}
		fmt.Fprintf(w, `{"categorySuggestions":[{"category":{"categoryId":%q,"categoryName":"Suggested"}}]}`, suggestID)
	})
}

func writeEbayError(w http.ResponseWriter, status, errorID int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"errors":[{"errorId":%d,"message":%q}]}`, errorID, msg)
}

func writeNoOffers(w http.ResponseWriter) {
	writeEbayError(w, http.StatusNotFound, 25710, "Entity not found.")
}

func intp(n int) *int { return &n }

func testProduct() woo.Product {
	return woo.Product{
		ID:            101,
		SKU:           "SKU-1",
		Name:          "Blue Widget",
		Type:          "simple",
		Price:         "10",
		StockQuantity: intp(5),
	}
}
