package models_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shoplist/app/models"
)

func TestImageBlobValueEncodesBase64(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 0x00, 0xFF, 0x10}

	v, err := models.ImageBlob(raw).Value()
	require.NoError(t, err)

	encoded, ok := v.(string)
	require.True(t, ok, "image blob must be stored as text")
	assert.Equal(t, base64.StdEncoding.EncodeToString(raw), encoded)
}

func TestImageBlobScanRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x01, 0xFE, 0xFF, 'a', 'b'}

	v, err := models.ImageBlob(raw).Value()
	require.NoError(t, err)

	var decoded models.ImageBlob
	require.NoError(t, decoded.Scan(v))
	assert.Equal(t, raw, []byte(decoded))
}

func TestImageBlobScanAcceptsBytes(t *testing.T) {
	raw := []byte("hello image")
	encoded := []byte(base64.StdEncoding.EncodeToString(raw))

	var decoded models.ImageBlob
	require.NoError(t, decoded.Scan(encoded))
	assert.Equal(t, raw, []byte(decoded))
}

func TestImageBlobNilAndEmpty(t *testing.T) {
	v, err := models.ImageBlob(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var decoded models.ImageBlob
	require.NoError(t, decoded.Scan(nil))
	assert.Nil(t, []byte(decoded))

	require.NoError(t, decoded.Scan(""))
	assert.Nil(t, []byte(decoded))
}

func TestImageBlobScanRejectsGarbage(t *testing.T) {
	var decoded models.ImageBlob
	assert.Error(t, decoded.Scan("not*base64!"))
	assert.Error(t, decoded.Scan(42))
}

func TestProductEqualComparesImageBytes(t *testing.T) {
	a := models.Product{UID: 1, CatalogID: 7, Name: "Beer", Quantity: 25, ImageData: []byte{1, 2, 3}}
	b := models.Product{UID: 1, CatalogID: 7, Name: "Beer", Quantity: 25, ImageData: []byte{1, 2, 3}}
	c := b
	c.ImageData = []byte{1, 2, 4}

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.False(t, a.Equal(c))

	d := b
	d.Quantity = 26
	assert.False(t, a.Equal(d))
}

func TestProductTableName(t *testing.T) {
	assert.Equal(t, "product", models.Product{}.TableName())
}
