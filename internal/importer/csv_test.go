package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_SingleRow(t *testing.T) {
	data := []byte("title,description,price,count\n\"Foo\",\"Bar\",9.99,3\n")

	records, err := ParseCSV(data)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Record{
		"title":       "Foo",
		"description": "Bar",
		"price":       "9.99",
		"count":       "3",
	}, records[0])
}

func TestParseCSV_ShortRowKeepsPresentFields(t *testing.T) {
	data := []byte("title,description,price,count\nFoo,Bar\n")

	records, err := ParseCSV(data)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Record{"title": "Foo", "description": "Bar"}, records[0])
	_, ok := records[0]["price"]
	assert.False(t, ok, "missing trailing fields must be absent, not empty")
}

func TestParseCSV_ExtraFieldsIgnored(t *testing.T) {
	data := []byte("title,price\nFoo,1.50,surplus\n")

	records, err := ParseCSV(data)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Record{"title": "Foo", "price": "1.50"}, records[0])
}

func TestParseCSV_BlankLinesSkipped(t *testing.T) {
	data := []byte("\n\ntitle,count\n\nFoo,2\n\n")

	records, err := ParseCSV(data)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Foo", records[0]["title"])
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	records, err := ParseCSV([]byte("title,description,price,count\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseCSV_Empty(t *testing.T) {
	records, err := ParseCSV(nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseCSV_InvalidEncoding(t *testing.T) {
	_, err := ParseCSV([]byte{0xff, 0xfe, 0xfd})
	assert.ErrorIs(t, err, ErrDecode)
}
