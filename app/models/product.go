package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/base64"
	"fmt"
)

// Product is one row of the shopping list.
//
// UID is the store-assigned surrogate key and is never reused; CatalogID is a
// caller-supplied display identifier with no uniqueness guarantee. ImageData
// is always non-nil once a product is committed — the service resolves a
// photo or a bundled default before every insert.
type Product struct {
	UID       uint      `gorm:"column:uid;primaryKey;autoIncrement"          json:"uid"`
	CatalogID int       `gorm:"column:id;not null"                           json:"catalog_id"`
	Name      string    `gorm:"column:name;size:255;not null"                json:"name"`
	Quantity  int       `gorm:"column:quantity;not null;default:0"           json:"quantity"`
	ImageData ImageBlob `gorm:"column:image_data;type:text"                  json:"-"`
}

// TableName keeps the original single-table schema.
func (Product) TableName() string { return "product" }

// Equal compares two products field by field, with the image blob compared
// byte-wise.
func (p Product) Equal(other Product) bool {
	return p.UID == other.UID &&
		p.CatalogID == other.CatalogID &&
		p.Name == other.Name &&
		p.Quantity == other.Quantity &&
		bytes.Equal(p.ImageData, other.ImageData)
}

// ImageBlob stores binary image bytes in a text column as standard base64.
// Encoding on write and decoding on read round-trips the bytes exactly.
type ImageBlob []byte

// Value implements driver.Valuer.
func (b ImageBlob) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Scan implements sql.Scanner.
func (b *ImageBlob) Scan(src interface{}) error {
	if src == nil {
		*b = nil
		return nil
	}

	var encoded string
	switch v := src.(type) {
	case string:
		encoded = v
	case []byte:
		encoded = string(v)
	default:
		return fmt.Errorf("models: cannot scan %T into ImageBlob", src)
	}

	if encoded == "" {
		*b = nil
		return nil
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("models: decode image blob: %w", err)
	}
	*b = decoded
	return nil
}
