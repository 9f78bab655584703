package pricing

import (
	"testing"

	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestKarat_IsValid(t *testing.T) {
	for _, k := range AllKarats() {
		assert.True(t, k.IsValid(), k.String())
	}
	assert.False(t, Karat("16K").IsValid())
	assert.False(t, Karat("").IsValid())
}

func TestKarat_Purity(t *testing.T) {
	assert.Equal(t, "99.9", Karat24.Purity().String())
	assert.Equal(t, "91.6", Karat22.Purity().String())
	assert.Equal(t, "75", Karat18.Purity().String())
}
