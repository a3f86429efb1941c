package sync

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"

	"github.com/julienbonastre/woo-ebay-sync/internal/ebay"
	"github.com/julienbonastre/woo-ebay-sync/internal/woo"
)

// priceMarkup is applied to the Woo price before listing.
const priceMarkup = 1.15

// OfferStatus is the terminal state EnsureOffer reports for a SKU.
type OfferStatus string

const (
	OfferWouldCreate OfferStatus = "would-create"
	OfferWouldUpdate OfferStatus = "would-update"
	OfferCreated     OfferStatus = "created"
	OfferUpdated     OfferStatus = "updated"
	OfferPublished   OfferStatus = "published"
)

// recoveredStatus marks an offer whose identity was recovered from a
// conflict but could not be fully converged; the remote state is carried in
// the status so operators can follow up.
func recoveredStatus(remote string) OfferStatus {
	if remote == "" {
		remote = "UNKNOWN"
	}
	return OfferStatus("recovered-" + remote)
}

// OfferOutcome identifies the offer a SKU ended up with and how it got
// there.
type OfferOutcome struct {
	OfferID string
	Status  OfferStatus
}

// EnsureOffer converges the SKU onto a single correct offer: it discovers
// any existing offer, updates or creates as needed, recovers from stale
// create/update conflict signals, and optionally publishes. Publish
// failures after a successful create or update are logged, not raised; the
// caller always gets an offer identity unless the SKU itself failed.
func (s *Service) EnsureOffer(ctx context.Context, sku string, prod woo.Product, locationKey string) (OfferOutcome, error) {
	offers, err := s.ebay.GetOffersBySKU(ctx, sku)
	if err != nil {
		switch ebay.Classify(err) {
		case ebay.KindOfferNotAvailable, ebay.KindEntityNotFound:
			offers = nil
		default:
			return OfferOutcome{}, fmt.Errorf("discover offers for %s: %w", sku, err)
		}
	}

	var existing *ebay.Offer
	if len(offers) > 1 {
		// Documented limitation: no client-side tie-break, first returned wins.
		log.Printf("[offer] SKU %s has %d offers; using first (%s)", sku, len(offers), offers[0].OfferID)
	}
	if len(offers) > 0 {
		existing = &offers[0]
	}

	payload, publishable := s.buildOfferPayload(ctx, sku, prod, locationKey)

	if s.opts.DryRun {
		if existing != nil {
			log.Printf("[dry-run] would update offer %s for SKU %s", existing.OfferID, sku)
			return OfferOutcome{OfferID: existing.OfferID, Status: OfferWouldUpdate}, nil
		}
		log.Printf("[dry-run] would create offer for SKU %s", sku)
		return OfferOutcome{Status: OfferWouldCreate}, nil
	}

	wantPublish := s.opts.Publish && publishable
	if s.opts.Publish && !publishable {
		log.Printf("[offer] SKU %s: no category resolved, publish disabled for this item", sku)
	}

	if existing != nil {
		err := s.ebay.UpdateOffer(ctx, existing.OfferID, payload)
		switch {
		case err == nil:
			if wantPublish {
				if perr := s.publishWithCategoryFallback(ctx, sku, existing.OfferID, payload, prod.Name); perr != nil {
					log.Printf("[offer] SKU %s: publish after update failed: %v", sku, perr)
					return OfferOutcome{OfferID: existing.OfferID, Status: OfferUpdated}, nil
				}
				return OfferOutcome{OfferID: existing.OfferID, Status: OfferPublished}, nil
			}
			return OfferOutcome{OfferID: existing.OfferID, Status: OfferUpdated}, nil
		case ebay.Classify(err) == ebay.KindOfferNotAvailable:
			// Offer is in a non-updatable remote state; fall through to create.
			log.Printf("[offer] SKU %s: offer %s not updatable, trying create", sku, existing.OfferID)
		default:
			return OfferOutcome{}, fmt.Errorf("update offer %s for %s: %w", existing.OfferID, sku, err)
		}
	}

	offerID, err := s.ebay.CreateOffer(ctx, payload)
	if err == nil {
		if wantPublish {
			if perr := s.publishWithCategoryFallback(ctx, sku, offerID, payload, prod.Name); perr != nil {
				log.Printf("[offer] SKU %s: publish after create failed: %v", sku, perr)
				return OfferOutcome{OfferID: offerID, Status: OfferCreated}, nil
			}
			return OfferOutcome{OfferID: offerID, Status: OfferPublished}, nil
		}
		return OfferOutcome{OfferID: offerID, Status: OfferCreated}, nil
	}
	if ebay.Classify(err) != ebay.KindOfferAlreadyExists {
		return OfferOutcome{}, fmt.Errorf("create offer for %s: %w", sku, err)
	}

	// The create conflicted with an offer the discovery step did not see.
	// Re-query to recover the canonical offer id.
	log.Printf("[offer] SKU %s: create conflicted with existing offer, re-fetching", sku)
	recovered, rerr := s.ebay.GetOffersBySKU(ctx, sku)
	if rerr != nil {
		return OfferOutcome{}, fmt.Errorf("recover offer for %s: %w", sku, rerr)
	}
	if len(recovered) == 0 {
		return OfferOutcome{}, fmt.Errorf("offer for %s reported as existing but none found on re-fetch", sku)
	}
	rec := recovered[0]

	if wantPublish {
		if perr := s.publishWithCategoryFallback(ctx, sku, rec.OfferID, payload, prod.Name); perr != nil {
			log.Printf("[offer] SKU %s: publish of recovered offer %s failed: %v", sku, rec.OfferID, perr)
			return OfferOutcome{OfferID: rec.OfferID, Status: recoveredStatus(rec.Status)}, nil
		}
		return OfferOutcome{OfferID: rec.OfferID, Status: OfferPublished}, nil
	}
	if uerr := s.ebay.UpdateOffer(ctx, rec.OfferID, payload); uerr != nil {
		log.Printf("[offer] SKU %s: update of recovered offer %s failed: %v", sku, rec.OfferID, uerr)
		return OfferOutcome{OfferID: rec.OfferID, Status: recoveredStatus(rec.Status)}, nil
	}
	return OfferOutcome{OfferID: rec.OfferID, Status: OfferUpdated}, nil
}

// buildOfferPayload derives the desired offer attributes from the product
// and configuration. The second return value is false when no category
// could be resolved, which disables publish for the item.
func (s *Service) buildOfferPayload(ctx context.Context, sku string, prod woo.Product, locationKey string) (ebay.Offer, bool) {
	categoryID, ok := s.resolveCategory(ctx, "", prod.Name)
	offer := ebay.Offer{
		SKU:                 sku,
		MarketplaceID:       s.cfg.MarketplaceID,
		Format:              "FIXED_PRICE",
		AvailableQuantity:   prod.Quantity(),
		CategoryID:          categoryID,
		ListingDescription:  listingDescription(prod),
		MerchantLocationKey: locationKey,
		PricingSummary: &ebay.PricingSummary{
			Price: &ebay.Amount{
				Value:    formatPrice(prod.UnitPrice() * priceMarkup),
				Currency: s.cfg.Currency,
			},
		},
		ListingPolicies: &ebay.ListingPolicies{
			FulfillmentPolicyID: s.cfg.FulfillmentPolicyID,
			PaymentPolicyID:     s.cfg.PaymentPolicyID,
			ReturnPolicyID:      s.cfg.ReturnPolicyID,
		},
	}
	return offer, ok
}

// resolveCategory picks a category for an offer: explicit override first,
// then the configured default, validated against the marketplace tree. An
// invalid candidate is discarded in favour of a title-based suggestion; a
// permission-denied check keeps the candidate optimistically.
func (s *Service) resolveCategory(ctx context.Context, override, title string) (string, bool) {
	candidate := override
	if candidate == "" {
		candidate = s.cfg.DefaultCategoryID
	}
	if candidate != "" {
		validity, err := s.ebay.ValidateCategory(ctx, candidate, s.cfg.MarketplaceID)
		if err != nil {
			log.Printf("[offer] category %s validation failed, keeping it: %v", candidate, err)
			validity = ebay.CategoryUnknown
		}
		switch validity {
		case ebay.CategoryValid:
			return candidate, true
		case ebay.CategoryUnknown:
			log.Printf("[offer] category %s could not be verified; publish may still reject it", candidate)
			return candidate, true
		case ebay.CategoryInvalid:
			log.Printf("[offer] category %s is invalid for %s, falling back to suggestion", candidate, s.cfg.MarketplaceID)
		}
	}
	if suggested := s.ebay.SuggestCategory(ctx, title, s.cfg.MarketplaceID); suggested != "" {
		return suggested, true
	}
	log.Printf("[offer] no category resolved for %q", title)
	return "", false
}

// publishWithCategoryFallback publishes the offer, and on a category
// rejection replaces the category (configured default, else title
// suggestion) and retries the publish exactly once.
func (s *Service) publishWithCategoryFallback(ctx context.Context, sku, offerID string, payload ebay.Offer, title string) error {
	err := s.ebay.PublishOffer(ctx, offerID)
	if err == nil {
		return nil
	}
	if ebay.Classify(err) != ebay.KindCategoryInvalid {
		return err
	}

	replacement := ""
	if s.cfg.DefaultCategoryID != "" && s.cfg.DefaultCategoryID != payload.CategoryID {
		replacement = s.cfg.DefaultCategoryID
	}
	if replacement == "" {
		replacement = s.ebay.SuggestCategory(ctx, title, s.cfg.MarketplaceID)
	}
	if replacement == "" || replacement == payload.CategoryID {
		return err
	}

	log.Printf("[offer] SKU %s: publish rejected category %s, retrying with %s", sku, payload.CategoryID, replacement)
	payload.CategoryID = replacement
	if uerr := s.ebay.UpdateOffer(ctx, offerID, payload); uerr != nil {
		return fmt.Errorf("update offer %s with category %s: %w", offerID, replacement, uerr)
	}
	return s.ebay.PublishOffer(ctx, offerID)
}

func listingDescription(prod woo.Product) string {
	if prod.ShortDescription != "" {
		return prod.ShortDescription
	}
	if prod.Description != "" {
		return prod.Description
	}
	return prod.Name
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
}
