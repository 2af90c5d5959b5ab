package message

import (
	"github.com/arloliu/fixwire/internal/options"
)

// SOH is the canonical field separator byte.
const SOH byte = 0x01

// config carries the codec dials shared by encoding, decoding and the
// factory. Encode ignores the strict and validate dials; Decode ignores the
// integrity-regeneration dial.
type config struct {
	sep                 byte
	strict              bool
	validate            bool
	regenerateIntegrity bool
	convertSepChecksum  bool
	headerDefaults      map[string]any
}

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		sep:                 SOH,
		strict:              true,
		validate:            true,
		regenerateIntegrity: true,
		convertSepChecksum:  true,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Option configures an encode, decode or factory call.
type Option = options.Option[*config]

// WithSeparator selects the field separator byte. The default is SOH; a
// printable separator such as '|' is useful for human-readable transcripts.
func WithSeparator(sep byte) Option {
	return options.NoError(func(c *config) {
		c.sep = sep
	})
}

// WithStrictMode controls strict decoding. When enabled (the default),
// missing required members and out-of-order required preamble fields are
// errors; when disabled they are tolerated and reported via Message.Omitted.
func WithStrictMode(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.strict = enabled
	})
}

// WithValidation controls integrity verification after decoding. When
// disabled, the decoded BeginString, BodyLength and CheckSum are accepted
// as-is. The default is enabled.
func WithValidation(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.validate = enabled
	})
}

// WithIntegrityRegeneration controls whether Encode rewrites BeginString,
// BodyLength and CheckSum. When disabled, fields are emitted exactly as
// supplied. The default is enabled.
func WithIntegrityRegeneration(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.regenerateIntegrity = enabled
	})
}

// WithChecksumSeparatorConversion controls whether a non-canonical separator
// is substituted with SOH for checksum computation, so that a transcript
// buffer carries the checksum of its production form. The default is enabled.
func WithChecksumSeparatorConversion(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.convertSepChecksum = enabled
	})
}

// WithHeaderDefaults merges extra header fields into every message a factory
// creates. Per-call header extras override these defaults. The option has no
// effect outside NewFactory.
func WithHeaderDefaults(defaults map[string]any) Option {
	return options.NoError(func(c *config) {
		if c.headerDefaults == nil {
			c.headerDefaults = make(map[string]any, len(defaults))
		}
		for name, value := range defaults {
			c.headerDefaults[name] = value
		}
	})
}
