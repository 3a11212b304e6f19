package shipment

import "errors"

var (
	ErrNoShipments     = errors.New("there are no shipments associated with this URL")
	ErrStoreNotAllowed = errors.New("not an Amazon or Magento order")
	ErrNoShipmentItems = errors.New("this shipment has no shipment items associated with it")
	ErrInvalidLineItem = errors.New("an item does not have a nonzero quantity or unit price")
)
