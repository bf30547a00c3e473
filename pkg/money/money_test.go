package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Amount
		wantErr error
	}{
		{"5000.00", 500000, nil},
		{"5000", 500000, nil},
		{"5000.5", 500050, nil},
		{" 12.34 ", 1234, nil},
		{".5", 50, nil},
		{"7.", 700, nil},
		{"0.01", 1, nil},
		{"-12.34", -1234, nil},
		{"+3", 300, nil},
		{"000123.40", 12340, nil},
		{"999999999.99", Max, nil},
		{"", 0, ErrInvalid},
		{"-", 0, ErrInvalid},
		{".", 0, ErrInvalid},
		{"abc", 0, ErrInvalid},
		{"1,000.00", 0, ErrInvalid},
		{"1e3", 0, ErrInvalid},
		{"1.2.3", 0, ErrInvalid},
		{"12.345", 0, ErrTooManyDecimals},
		{"1234567890123456", 0, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "5000.00", Amount(500000).String())
	assert.Equal(t, "0.05", Amount(5).String())
	assert.Equal(t, "-1.50", Amount(-150).String())
	assert.Equal(t, "999999999.99", Max.String())
}

func TestJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Amount `json:"a"`
	}{A: 123456})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"1234.56"}`, string(b))

	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`"6000.00"`), &a))
	assert.Equal(t, Amount(600000), a)

	require.NoError(t, json.Unmarshal([]byte(`42.5`), &a))
	assert.Equal(t, Amount(4250), a)

	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &a))
	assert.Error(t, json.Unmarshal([]byte(`true`), &a))
}

func TestScan(t *testing.T) {
	var a Amount
	require.NoError(t, a.Scan(int64(5000)))
	assert.Equal(t, Amount(500000), a)

	require.NoError(t, a.Scan(float64(12.3)))
	assert.Equal(t, Amount(1230), a)

	require.NoError(t, a.Scan([]byte("77.07")))
	assert.Equal(t, Amount(7707), a)

	require.NoError(t, a.Scan("1.10"))
	assert.Equal(t, Amount(110), a)

	require.NoError(t, a.Scan(nil))
	assert.Equal(t, Amount(0), a)

	assert.Error(t, a.Scan(true))

	v, err := Amount(250).Value()
	require.NoError(t, err)
	assert.Equal(t, "2.50", v)
}
