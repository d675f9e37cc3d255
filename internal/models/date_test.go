package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	type payload struct {
		Born *Date `json:"born"`
		Died *Date `json:"died"`
	}

	data, err := json.Marshal(payload{Born: datePtr(1975, time.April, 12)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"born":"1975-04-12","died":null}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"born":"2001-02-03","died":null}`), &decoded))
	require.NotNil(t, decoded.Born)
	assert.Equal(t, "2001-02-03", decoded.Born.String())
	assert.Nil(t, decoded.Died)

	assert.Error(t, json.Unmarshal([]byte(`{"born":"03/02/2001"}`), &decoded))
}

func TestDateScan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1999-12-31", d.String())

	require.NoError(t, d.Scan("2020-01-02"))
	assert.Equal(t, "2020-01-02", d.String())

	require.NoError(t, d.Scan([]byte("2021-03-04 00:00:00+00:00")))
	assert.Equal(t, "2021-03-04", d.String())

	assert.Error(t, d.Scan(42))
}

func TestParseOptionalDate(t *testing.T) {
	d, err := ParseOptionalDate("  ")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseOptionalDate("2000-09-15")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2000, time.September, 15), *d)

	_, err = ParseOptionalDate("2000-13-01")
	assert.Error(t, err)
}
