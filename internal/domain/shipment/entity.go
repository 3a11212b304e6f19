package shipment

import "github.com/shopspring/decimal"

// Shipment mirrors one element of the ShipStation /shipments response.
// Only the fields the order sheet and the validation gate read are mapped.
type Shipment struct {
	ShipmentID      int64           `json:"shipmentId"`
	OrderID         int64           `json:"orderId"`
	OrderKey        string          `json:"orderKey"`
	OrderNumber     string          `json:"orderNumber"`
	CreateDate      string          `json:"createDate"`
	ShipTo          Address         `json:"shipTo"`
	ShipmentCost    decimal.Decimal `json:"shipmentCost"`
	ShipmentItems   []LineItem      `json:"shipmentItems"`
	AdvancedOptions AdvancedOptions `json:"advancedOptions"`
}

type Address struct {
	Name       string  `json:"name"`
	Street1    string  `json:"street1"`
	Street2    *string `json:"street2"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postalCode"`
	Phone      string  `json:"phone"`
}

// LineItem is a single shipped item. A null TaxAmount means no tax was
// charged on the line.
type LineItem struct {
	SKU       string              `json:"sku"`
	Name      string              `json:"name"`
	Quantity  int                 `json:"quantity"`
	UnitPrice decimal.Decimal     `json:"unitPrice"`
	TaxAmount decimal.NullDecimal `json:"taxAmount"`
}

type AdvancedOptions struct {
	StoreID int64 `json:"storeId"`
}

// List is the paged envelope returned for a SHIP_NOTIFY resource URL.
type List struct {
	Shipments []Shipment `json:"shipments"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	Pages     int        `json:"pages"`
}

// Store is an element of the ShipStation /stores response.
type Store struct {
	StoreID   int64  `json:"storeId"`
	StoreName string `json:"storeName"`
	Active    bool   `json:"active"`
}

// Tax returns the line's tax amount, zero when none was charged.
func (i LineItem) Tax() decimal.Decimal {
	if !i.TaxAmount.Valid {
		return decimal.Zero
	}
	return i.TaxAmount.Decimal
}

// StoreIDs collects the ids of stores whose name is in names.
func StoreIDs(stores []Store, names []string) map[int64]struct{} {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}
	ids := make(map[int64]struct{})
	for _, s := range stores {
		if _, ok := wanted[s.StoreName]; ok {
			ids[s.StoreID] = struct{}{}
		}
	}
	return ids
}

// Webhook is the body ShipStation posts when a subscribed event fires.
type Webhook struct {
	ResourceURL  string `json:"resource_url"`
	ResourceType string `json:"resource_type"`
}

// ResourceShipNotify is the only webhook type that produces an order sheet.
const ResourceShipNotify = "SHIP_NOTIFY"

// Tag is an element of the ShipStation /accounts/listtags response.
type Tag struct {
	TagID int64  `json:"tagId"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Order is a ShipStation order kept as decoded JSON, so posting it back to
// /orders/createorder leaves every field it does not touch unchanged.
type Order map[string]any

// HasTag reports whether tagID is in the order's tagIds.
func (o Order) HasTag(tagID int64) bool {
	ids, _ := o["tagIds"].([]any)
	for _, v := range ids {
		if n, ok := v.(float64); ok && int64(n) == tagID {
			return true
		}
	}
	return false
}

// OrderList is the paged envelope of the /orders response.
type OrderList struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Pages  int     `json:"pages"`
}

// FindTag returns the first tag with the given name.
func FindTag(tags []Tag, name string) (Tag, bool) {
	for _, t := range tags {
		if t.Name == name {
			return t, true
		}
	}
	return Tag{}, false
}
