package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGSTIN(t *testing.T) {
	t.Run("accepts and normalizes valid GSTIN", func(t *testing.T) {
		gstin, err := ParseGSTIN(" 27aapfu0939f1zv ")
		require.NoError(t, err)
		assert.Equal(t, "27AAPFU0939F1ZV", gstin.String())
		assert.Equal(t, "27", gstin.StateCode())
		assert.Equal(t, "Maharashtra", gstin.StateName())
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		for _, raw := range []string{"", "27AAPFU0939F1Z", "27AAPFU0939F1ZVX", "XXAAPFU0939F1ZV", "27aapfu0939f1av"} {
			_, err := ParseGSTIN(raw)
			assert.Error(t, err, raw)
		}
	})
}

func TestGSTIN_SameState(t *testing.T) {
	mh1, err := ParseGSTIN("27AAPFU0939F1ZV")
	require.NoError(t, err)
	mh2, err := ParseGSTIN("27AADCB2230M1ZT")
	require.NoError(t, err)
	ka, err := ParseGSTIN("29AABCU9603R1ZM")
	require.NoError(t, err)

	assert.True(t, mh1.SameState(mh2))
	assert.False(t, mh1.SameState(ka))
	assert.False(t, mh1.SameState(GSTIN("")))
}

func TestIsKnownStateCode(t *testing.T) {
	assert.True(t, IsKnownStateCode("27"))
	assert.True(t, IsKnownStateCode("07"))
	assert.False(t, IsKnownStateCode("99"))
	assert.False(t, IsKnownStateCode(""))
}
