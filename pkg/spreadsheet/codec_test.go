package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRow(pairs ...any) *Row {
	r := NewRow()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1])
	}
	return r
}

func TestSerializeParseRoundTrip(t *testing.T) {
	rows := []*Row{
		makeRow("product_id", "P1", "label", "Gold - 30d", "price", 100.0, "active", true),
		makeRow("product_id", "P2", "label", "Silver - 7d", "price", 49.5, "active", false),
	}

	data, err := Serialize(rows, "Products")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	assert.Equal(t, []string{"product_id", "label", "price", "active"}, parsed[0].Keys())

	v, ok := parsed[0].Get("product_id")
	require.True(t, ok)
	assert.Equal(t, "P1", v)

	v, ok = parsed[0].Get("price")
	require.True(t, ok)
	assert.Equal(t, 100.0, v)

	v, ok = parsed[1].Get("price")
	require.True(t, ok)
	assert.Equal(t, 49.5, v)

	v, ok = parsed[0].Get("active")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestSerializeEmptyInput(t *testing.T) {
	data, err := Serialize(nil, "Products")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Empty(t, parsed)
}

func TestParseMalformedBytes(t *testing.T) {
	_, err := Parse([]byte("this is not a workbook"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestParseHeaderOnlySheet(t *testing.T) {
	data, err := Serialize([]*Row{makeRow("a", "x")}, "Sheet")
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
}

func TestRowStringCoercion(t *testing.T) {
	r := makeRow("s", "hello", "n", 42.0, "b", true)
	assert.Equal(t, "hello", r.String("s"))
	assert.Equal(t, "42", r.String("n"))
	assert.Equal(t, "TRUE", r.String("b"))
	assert.Equal(t, "", r.String("missing"))
}

func TestRowSetKeepsFirstPosition(t *testing.T) {
	r := NewRow()
	r.Set("a", 1)
	r.Set("b", 2)
	r.Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, r.Keys())
	v, _ := r.Get("a")
	assert.Equal(t, 3, v)
}
