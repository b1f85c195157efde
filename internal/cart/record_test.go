package cart

import (
	"testing"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: "p1", Name: "Hoodie", Price: 14900, SalePrice: ptr(int64(9900)), Category: domain.CategoryTops, Image: ptr("https://cdn/p1.jpg"), Quantity: 2},
		{ProductID: "p2", Name: "Shorts", Price: 9900, Category: domain.CategoryShorts, Quantity: 1},
	}

	data, err := Encode(lines)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"items":[`)
	assert.Contains(t, string(data), `"productId":"p1"`)

	assert.Equal(t, lines, Decode(data))
}

func TestEncode_EmptyCart(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(data))
}

func TestDecode_FailSoft(t *testing.T) {
	for _, in := range []string{"", "not json", `{"items":"nope"}`, `[1,2,3]`, `{"items":[{"productId":1}]}`} {
		assert.Empty(t, Decode([]byte(in)), "input %q", in)
		assert.NotNil(t, Decode([]byte(in)))
	}
}

func TestDecode_DropsInvalidAndMergesDuplicates(t *testing.T) {
	data := []byte(`{"items":[
		{"productId":"p1","name":"A","price":100,"category":"TOPS","quantity":1},
		{"productId":"p1","name":"A","price":100,"category":"TOPS","quantity":2},
		{"productId":"p2","name":"B","price":-5,"category":"TOPS","quantity":1},
		{"productId":"p3","name":"C","price":10,"category":"TOPS","quantity":0}
	]}`)

	lines := Decode(data)
	require.Len(t, lines, 1)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestDecode_DropsOversizedLines(t *testing.T) {
	data := []byte(`{"items":[
		{"productId":"p1","name":"A","price":128,"category":"TSHIRTS","quantity":144115188075855872},
		{"productId":"p2","name":"B","price":100000000001,"category":"TOPS","quantity":1},
		{"productId":"p3","name":"C","price":100,"category":"TOPS","quantity":2}
	]}`)

	lines := Decode(data)
	require.Len(t, lines, 1)
	assert.Equal(t, "p3", lines[0].ProductID)
}
