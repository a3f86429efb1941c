package ebay

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/julienbonastre/woo-ebay-sync/internal/retry"
)

// CategoryValidity is the tri-state result of a category check. Unknown
// means the remote denied the lookup; callers must treat it as "assume
// valid", never as invalid.
type CategoryValidity int

const (
	CategoryInvalid CategoryValidity = iota
	CategoryValid
	CategoryUnknown
)

func (v CategoryValidity) String() string {
	switch v {
	case CategoryValid:
		return "valid"
	case CategoryUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// DefaultCategoryTreeID returns the category tree id assigned to a
// marketplace. Not cached; the retry executor bounds the cost of re-fetching.
func (c *Client) DefaultCategoryTreeID(ctx context.Context, marketplaceID string) (string, error) {
	return retry.DoValue(ctx, retry.Options{Label: "get default category tree"}, func(ctx context.Context) (string, error) {
		var out struct {
			CategoryTreeID string `json:"categoryTreeId"`
		}
		err := c.do(ctx, appToken, http.MethodGet, "/commerce/taxonomy/v1/get_default_category_tree_id",
			url.Values{"marketplace_id": {marketplaceID}}, nil, &out)
		if err != nil {
			return "", err
		}
		return out.CategoryTreeID, nil
	})
}

// ValidateCategory checks a category id against the marketplace's tree.
// A 403 or permission errorId maps to CategoryUnknown, a 400/404 to
// CategoryInvalid; other failures propagate.
func (c *Client) ValidateCategory(ctx context.Context, categoryID, marketplaceID string) (CategoryValidity, error) {
	treeID, err := c.DefaultCategoryTreeID(ctx, marketplaceID)
	if err != nil {
		return CategoryInvalid, err
	}

	var out struct {
		CategorySubtreeNode json.RawMessage `json:"categorySubtreeNode"`
		Category            json.RawMessage `json:"category"`
	}
	path := "/commerce/taxonomy/v1/category_tree/" + url.PathEscape(treeID) + "/get_category_subtree"
	err = c.do(ctx, appToken, http.MethodGet, path, url.Values{"category_id": {categoryID}}, nil, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			if apiErr.Status == http.StatusForbidden || apiErr.ErrorID == errIDInsufficientPermission {
				log.Printf("[taxonomy] validation of category %s denied (status %d); assuming valid", categoryID, apiErr.Status)
				return CategoryUnknown, nil
			}
			if apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusNotFound {
				return CategoryInvalid, nil
			}
		}
		return CategoryInvalid, err
	}
	if jsonPresent(out.CategorySubtreeNode) || jsonPresent(out.Category) {
		return CategoryValid, nil
	}
	return CategoryInvalid, nil
}

// SuggestCategory returns the top-ranked category suggestion for a product
// title, or "" when the lookup fails or yields nothing. Failures surface as
// "no suggestion", not as errors.
func (c *Client) SuggestCategory(ctx context.Context, title, marketplaceID string) string {
	treeID, err := c.DefaultCategoryTreeID(ctx, marketplaceID)
	if err != nil {
		log.Printf("[taxonomy] category suggestion failed: %v", err)
		return ""
	}

	q := title
	if r := []rune(q); len(r) > 250 {
		q = string(r[:250])
	}

	var out struct {
		CategorySuggestions []struct {
			Category struct {
				CategoryID   string `json:"categoryId"`
				CategoryName string `json:"categoryName"`
			} `json:"category"`
		} `json:"categorySuggestions"`
	}
	path := "/commerce/taxonomy/v1/category_tree/" + url.PathEscape(treeID) + "/get_category_suggestions"
	err = retry.Do(ctx, retry.Options{Label: "get category suggestions"}, func(ctx context.Context) error {
		out.CategorySuggestions = nil
		return c.do(ctx, appToken, http.MethodGet, path, url.Values{"q": {q}}, nil, &out)
	})
	if err != nil {
		log.Printf("[taxonomy] category suggestion failed: %v", err)
		return ""
	}
	if len(out.CategorySuggestions) == 0 {
		log.Printf("[taxonomy] no category suggestions for %q", title)
		return ""
	}
	best := out.CategorySuggestions[0].Category
	log.Printf("[taxonomy] suggested category %s (%s) for %q", best.CategoryID, best.CategoryName, title)
	return best.CategoryID
}

func jsonPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
