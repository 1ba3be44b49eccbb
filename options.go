package donut

// EncodeOption configures an Encoder. Options are applied in order, so a
// later option overrides an earlier one that touches the same setting.
type EncodeOption func(*encodeConfig)

type encodeConfig struct {
	cycleLimit int
	bitFlip    bool
	dontCare   *[64]byte
}

func defaultEncodeConfig() encodeConfig {
	return encodeConfig{bitFlip: true}
}

// WithCycleLimit caps the simulated 6502 decode cost a block's winning
// encoding may have. Zero (the default) applies the encoder's built-in
// ceiling, which every real tile in practice falls well under.
func WithCycleLimit(cycles int) EncodeOption {
	return func(c *encodeConfig) {
		c.cycleLimit = cycles
	}
}

// WithBitFlip enables or disables the 135-degree plane rotation as a
// candidate block mode. It is enabled by default; disabling it trades
// away roughly half of the encoder's search space for faster encoding.
func WithBitFlip(enabled bool) EncodeOption {
	return func(c *encodeConfig) {
		c.bitFlip = enabled
	}
}

// WithDontCareMask marks pixel positions the encoder is free to choose a
// value for when it shrinks the encoding, applied identically to every
// block written through the Encoder. Nil (the default) means every pixel
// matters.
func WithDontCareMask(mask *[64]byte) EncodeOption {
	return func(c *encodeConfig) {
		c.dontCare = mask
	}
}
