package codes

import "github.com/Alijeyrad/telecare_backend/config"

// Uppercase alphanumeric without ambiguous characters (0/O, 1/I/L).
const defaultCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const defaultLength = 8

// Config holds settings for coupon code generation
type Config struct {
	Length  int
	Charset string
}

func DefaultConfig() Config {
	return Config{Length: defaultLength, Charset: defaultCharset}
}

// GetLength returns the configured length or the default if unset
func (c Config) GetLength() int {
	if c.Length < 1 {
		return defaultLength
	}
	return c.Length
}

// GetCharset returns the configured charset or the default if empty
func (c Config) GetCharset() string {
	if c.Charset == "" {
		return defaultCharset
	}
	return c.Charset
}

// FromCentralConfig converts central config.CodesConfig to package Config
func FromCentralConfig(c config.CodesConfig) Config {
	return Config{
		Length:  c.CouponLength,
		Charset: c.Charset,
	}
}
