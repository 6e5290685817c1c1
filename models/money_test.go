package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMoneyArithmetic(t *testing.T) {
	a := MoneyFromInt(1500)
	b, err := MoneyFromString("499.50")
	require.NoError(t, err)

	assert.Equal(t, "1999.5", a.Add(b).String())
	assert.Equal(t, "1000.5", a.Sub(b).String())
	assert.True(t, a.Equal(MoneyFromInt(1500)))
	assert.False(t, a.Equal(b))
}

func TestMoneyFromStringRejectsGarbage(t *testing.T) {
	_, err := MoneyFromString("not-a-number")
	assert.Error(t, err)
}

func TestMoneyPaise(t *testing.T) {
	m, err := MoneyFromString("1234.56")
	require.NoError(t, err)
	assert.Equal(t, int64(123456), m.Paise())
	assert.Equal(t, int64(150000), MoneyFromInt(1500).Paise())
}

// Amounts must survive the trip through the mongo document codec without
// losing precision.
func TestMoneyBSONRoundTrip(t *testing.T) {
	type doc struct {
		Amount Money `bson:"amount"`
	}

	original, err := MoneyFromString("99999.99")
	require.NoError(t, err)

	raw, err := bson.Marshal(doc{Amount: original})
	require.NoError(t, err)

	var decoded doc
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.True(t, decoded.Amount.Equal(original))
}

func TestMoneyJSON(t *testing.T) {
	out, err := json.Marshal(MoneyFromInt(1500))
	require.NoError(t, err)
	assert.Equal(t, `"1500"`, string(out))

	var fromNumber Money
	require.NoError(t, json.Unmarshal([]byte(`1500.5`), &fromNumber))
	assert.Equal(t, "1500.5", fromNumber.String())

	var fromString Money
	require.NoError(t, json.Unmarshal([]byte(`"250"`), &fromString))
	assert.True(t, fromString.Equal(MoneyFromInt(250)))
}
