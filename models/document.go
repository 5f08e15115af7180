package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IDField is the JSON key a document's identifier is exposed under
const IDField = "_id"

// Collection names a document table
type Collection string

const (
	// CollectionFoods holds menu items
	CollectionFoods Collection = "foods"
	// CollectionOrders holds placed orders
	CollectionOrders Collection = "user_orders"
)

// TableName returns the table backing the collection
func (c Collection) TableName() string {
	return string(c)
}

// Document is a stored item or order: a generated id plus arbitrary fields.
// Fields never contains the id key.
type Document struct {
	ID        uuid.UUID
	Fields    map[string]interface{}
	CreatedAt time.Time
}

// NewDocument creates a Document with a fresh id. A client supplied id
// field is dropped.
func NewDocument(fields map[string]interface{}) *Document {
	clean := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if k == IDField {
			continue
		}
		clean[k] = v
	}
	return &Document{
		ID:        uuid.New(),
		Fields:    clean,
		CreatedAt: time.Now().UTC(),
	}
}

// Email returns the owner email field, or "" when absent or not a string
func (d *Document) Email() string {
	return d.stringField("email")
}

// Category returns the category field, or "" when absent or not a string
func (d *Document) Category() string {
	return d.stringField("category")
}

func (d *Document) stringField(key string) string {
	if d.Fields == nil {
		return ""
	}
	s, _ := d.Fields[key].(string)
	return s
}

// MarshalJSON renders the fields with the id under "_id"
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Fields)+1)
	for k, v := range d.Fields {
		out[k] = v
	}
	out[IDField] = d.ID.String()
	return json.Marshal(out)
}

// InsertResult acknowledges a stored document
type InsertResult struct {
	Acknowledged bool      `json:"acknowledged"`
	InsertedID   uuid.UUID `json:"insertedId"`
}

// DeleteResult acknowledges a delete by id
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// CountResult is the response of a count query
type CountResult struct {
	Count int64 `json:"count"`
}
