package avro

// ShipNotifySchema is the payload of the ship-notify topic: a ShipStation
// resource URL that already passed the validation gate.
const ShipNotifySchema = `{
	"type": "record",
	"name": "ShipNotify",
	"namespace": "com.pgd.eagle",
	"fields": [
		{"name": "message_id", "type": "string"},
		{"name": "resource_url", "type": "string"},
		{"name": "resource_type", "type": ["null", "string"], "default": null},
		{"name": "queued_at", "type": "long"}
	]
}`

// CustomerNoteSchema is the payload of the customer-note topic.
const CustomerNoteSchema = `{
	"type": "record",
	"name": "CustomerNote",
	"namespace": "com.pgd.eagle",
	"fields": [
		{"name": "message_id", "type": "string"},
		{"name": "order_number", "type": "string"},
		{"name": "queued_at", "type": "long"}
	]
}`
