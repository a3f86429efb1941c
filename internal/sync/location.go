package sync

import (
	"context"
	"fmt"
	"log"

	"github.com/julienbonastre/woo-ebay-sync/internal/ebay"
)

// EnsureLocation makes sure the configured fulfillment location exists
// before any offer references it, and returns its key. In dry-run mode a
// missing location is reported but not created.
func (s *Service) EnsureLocation(ctx context.Context) (string, error) {
	key := s.cfg.LocationKey

	existing, err := s.ebay.GetLocation(ctx, key)
	if err != nil {
		return "", fmt.Errorf("get location %s: %w", key, err)
	}
	if existing != "" {
		log.Printf("[location] using existing eBay location %s", existing)
		return existing, nil
	}

	if s.opts.DryRun {
		log.Printf("[dry-run] would create eBay location %s", key)
		return key, nil
	}

	loc := ebay.Location{
		MerchantLocationKey: key,
		Name:                s.cfg.ShipName,
		LocationTypes:       []string{"STORE", "WAREHOUSE"},
		Phone:               s.cfg.ShipPhone,
		Address: &ebay.Address{
			AddressLine1:    s.cfg.ShipAddressLine1,
			City:            s.cfg.ShipCity,
			StateOrProvince: s.cfg.ShipState,
			PostalCode:      s.cfg.ShipPostcode,
			Country:         s.cfg.ShipCountry,
		},
	}
	if err := s.ebay.CreateLocation(ctx, loc); err != nil {
		return "", fmt.Errorf("create location %s: %w", key, err)
	}
	log.Printf("[location] created eBay location %s", key)
	return key, nil
}
