package codes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/telecare_backend/config"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(12, "AB")
	require.NoError(t, err)
	assert.Len(t, code, 12)
	assert.Empty(t, strings.Trim(code, "AB"))

	_, err = GenerateCode(0, "AB")
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = GenerateCode(4, "")
	assert.ErrorIs(t, err, ErrEmptyCharset)
}

func TestGenerateCouponDefaults(t *testing.T) {
	code, err := GenerateCoupon(Config{})
	require.NoError(t, err)
	assert.Len(t, code, defaultLength)
	assert.Equal(t, NormalizeCode(code), code)
}

func TestNormalizeAndFormat(t *testing.T) {
	assert.Equal(t, "DESCONTO10", NormalizeCode("  desconto10 "))
	assert.Equal(t, "ABCD-1234", FormatCode("ABCD1234", 4))
	assert.Equal(t, "ABC", FormatCode("ABC", 4))
	assert.Equal(t, "ABCD1234", ParseCode("abcd-12 34"))
}

func TestFromCentralConfig(t *testing.T) {
	cfg := FromCentralConfig(config.CodesConfig{})
	assert.Equal(t, defaultLength, cfg.GetLength())
	assert.Equal(t, defaultCharset, cfg.GetCharset())

	cfg = FromCentralConfig(config.CodesConfig{CouponLength: 6, Charset: "XYZ"})
	assert.Equal(t, 6, cfg.GetLength())
	assert.Equal(t, "XYZ", cfg.GetCharset())
}
