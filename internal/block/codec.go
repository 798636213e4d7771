package block

import "fmt"

// DefaultSlots is the number of half-hour availability slots per day,
// covering 09:00 through 24:00.
const DefaultSlots = 30

// InvalidInputError reports a violation of the codec's structural
// contract: a slot array of the wrong length or with non-binary values,
// or a packed value of the wrong byte count. For data read back from
// the store this means corruption, and the enclosing operation must
// abort rather than substitute defaults.
type InvalidInputError struct {
	msg string
}

func (e *InvalidInputError) Error() string { return e.msg }

func invalidf(format string, args ...any) *InvalidInputError {
	return &InvalidInputError{msg: fmt.Sprintf(format, args...)}
}

// Codec converts between a day's slot array and its bit-packed form.
// The slot count is fixed at construction; the packed width is the
// smallest byte count that holds one bit per slot (4 bytes for the
// default 30 slots). Bits are filled most-significant-first within
// each byte, byte 0 first, so byte 0 holds slots 0-7 and is readable
// directly in a hex dump. Stored data depends on this exact layout.
type Codec struct {
	slots  int
	packed int
}

// New returns a codec for the given slot count. Counts below one fall
// back to DefaultSlots.
func New(slots int) *Codec {
	if slots < 1 {
		slots = DefaultSlots
	}
	return &Codec{slots: slots, packed: (slots + 7) / 8}
}

// Slots returns the configured number of slots per day.
func (c *Codec) Slots() int { return c.slots }

// PackedLen returns the byte width of the packed form.
func (c *Codec) PackedLen() int { return c.packed }

// Zero returns a fresh all-unavailable slot array.
func (c *Codec) Zero() []int { return make([]int, c.slots) }

// Encode packs a slot array into its fixed-width byte form. The array
// must have exactly Slots() entries, each 0 or 1; any pad bits in the
// final byte are left clear.
func (c *Codec) Encode(blocks []int) ([]byte, error) {
	if len(blocks) != c.slots {
		return nil, invalidf("blocks must have %d entries, got %d", c.slots, len(blocks))
	}
	packed := make([]byte, c.packed)
	for i, v := range blocks {
		switch v {
		case 0:
			// bit stays clear
		case 1:
			packed[i/8] |= 1 << (7 - i%8)
		default:
			return nil, invalidf("blocks[%d] must be 0 or 1, got %d", i, v)
		}
	}
	return packed, nil
}

// Decode unpacks a byte form into a slot array. Only the byte count is
// checked; pad bits beyond the last slot are ignored whatever their
// value, so any well-sized input decodes.
func (c *Codec) Decode(packed []byte) ([]int, error) {
	if len(packed) != c.packed {
		return nil, invalidf("packed availability must be %d bytes, got %d", c.packed, len(packed))
	}
	blocks := make([]int, c.slots)
	for i := range blocks {
		blocks[i] = int(packed[i/8]>>(7-i%8)) & 1
	}
	return blocks, nil
}
