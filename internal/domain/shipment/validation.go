package shipment

import "fmt"

// ValidateList is the gate a SHIP_NOTIFY resource must pass before it is
// queued for encoding.
func ValidateList(list *List, storeIDs map[int64]struct{}) error {
	if list == nil || list.Total < 1 || len(list.Shipments) == 0 {
		return ErrNoShipments
	}

	for _, s := range list.Shipments {
		if _, ok := storeIDs[s.AdvancedOptions.StoreID]; !ok {
			return fmt.Errorf("shipment %d store %d: %w", s.ShipmentID, s.AdvancedOptions.StoreID, ErrStoreNotAllowed)
		}
		if len(s.ShipmentItems) == 0 {
			return fmt.Errorf("shipment %d: %w", s.ShipmentID, ErrNoShipmentItems)
		}
		for _, item := range s.ShipmentItems {
			if item.Quantity <= 0 || !item.UnitPrice.IsPositive() {
				return fmt.Errorf("shipment %d sku %q: %w", s.ShipmentID, item.SKU, ErrInvalidLineItem)
			}
		}
	}
	return nil
}
