package eagle

import "errors"

var (
	ErrNotShipNotify   = errors.New("the resource is not a SHIP_NOTIFY resource")
	ErrInvalidResource = errors.New("unable to queue resource url")
)
