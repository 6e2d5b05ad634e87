// Package bytecode implements the fixed-width, declarative instruction
// codec described in spec §4.6-4.8 and §6: every instruction is a single
// 32-bit word, a 5-bit pseudo-op in bits 31..27 followed by up to 27 bits
// partitioned left-to-right into named parts declared once in a
// BitLayout, rather than per-instruction ad hoc bit-twiddling. Grounded
// in spirit on the pony-lang original's freyr/encoder.rs (InstructionEncoder,
// InstructionDecoder, LayoutHelper) and, for the struct-plus-bit-mask-
// constant idiom, on the teacher's internal/vmregister/bytecode.go — the
// teacher's own register-based opcode format is a different wire shape
// entirely (iABC/iABx), so only its style, not its structure, carries over.
package bytecode

import "github.com/pkg/errors"

// PartKind distinguishes a BitLayout part that encodes an enumerated,
// reversible variant from one that carries a raw integer immediate.
type PartKind int

const (
	// BitPatternKind parts translate a small enumerated Go value to and
	// from an arbitrary bit pattern via an explicit, reversible table.
	BitPatternKind PartKind = iota
	// ImmediateKind parts carry a raw unsigned integer, masked to the
	// part's declared bit length.
	ImmediateKind
)

// BitPatternEntry maps one enumerated variant to its wire bit pattern.
// The mapping must be one-to-one in both directions for a layout to
// round-trip.
type BitPatternEntry struct {
	Variant uint32
	Pattern uint32
}

// LayoutPart is one named, fixed-width slice of an instruction's 27
// post-pseudo-op bits.
type LayoutPart struct {
	Name     string
	Kind     PartKind
	Length   int
	Patterns []BitPatternEntry // only meaningful when Kind == BitPatternKind
}

// BitLayout is the full declarative shape of one pseudo-op's instruction
// word: its 5-bit pseudo-op value and its ordered, left-to-right parts.
// The parts' lengths must sum to no more than 27.
type BitLayout struct {
	PseudoOp uint8
	Parts    []LayoutPart
}

func (l BitLayout) totalPartBits() int {
	n := 0
	for _, p := range l.Parts {
		n += p.Length
	}
	return n
}

// Encode packs values (one raw uint32 per part, keyed by part name) into
// a single instruction word per spec §4.6: pseudo-op occupies bits
// 31..27; each part's start bit is 5 plus the sum of earlier parts'
// lengths, its value is masked to its declared length, and left-shifted
// so its least significant bit lands at bit (32 - start - length) before
// being OR'd into the accumulator.
func (l BitLayout) Encode(values map[string]uint32) (uint32, error) {
	if l.totalPartBits() > 27 {
		return 0, errors.Errorf("layout for pseudo-op %d exceeds 27 bits (%d)", l.PseudoOp, l.totalPartBits())
	}
	word := uint32(l.PseudoOp&0x1F) << 27
	offset := 0
	for _, part := range l.Parts {
		raw, ok := values[part.Name]
		if !ok {
			return 0, errors.Errorf("missing value for part %q", part.Name)
		}
		var bits uint32
		switch part.Kind {
		case ImmediateKind:
			bits = raw
		case BitPatternKind:
			found := false
			for _, e := range part.Patterns {
				if e.Variant == raw {
					bits = e.Pattern
					found = true
					break
				}
			}
			if !found {
				return 0, errors.Errorf("no bit pattern for variant %d in part %q", raw, part.Name)
			}
		}
		mask := uint32(1)<<uint(part.Length) - 1
		bits &= mask
		startBit := 5 + offset
		shift := 32 - startBit - part.Length
		word |= bits << uint(shift)
		offset += part.Length
	}
	return word, nil
}

// Decode mirrors Encode: it extracts the pseudo-op and every part's raw
// value (for BitPatternKind parts, translated back to its variant) from
// word.
func (l BitLayout) Decode(word uint32) (pseudoOp uint8, values map[string]uint32, err error) {
	pseudoOp = uint8((word >> 27) & 0x1F)
	values = make(map[string]uint32, len(l.Parts))
	offset := 0
	for _, part := range l.Parts {
		startBit := 5 + offset
		shift := 32 - startBit - part.Length
		mask := uint32(1)<<uint(part.Length) - 1
		raw := (word >> uint(shift)) & mask
		switch part.Kind {
		case ImmediateKind:
			values[part.Name] = raw
		case BitPatternKind:
			found := false
			for _, e := range part.Patterns {
				if e.Pattern == raw {
					values[part.Name] = e.Variant
					found = true
					break
				}
			}
			if !found {
				return 0, nil, errors.Errorf("unrecognized bit pattern %d for part %q", raw, part.Name)
			}
		}
		offset += part.Length
	}
	return pseudoOp, values, nil
}

func numberOfBytesPart(name string) LayoutPart {
	return LayoutPart{
		Name: name, Kind: BitPatternKind, Length: 2,
		Patterns: []BitPatternEntry{
			{Variant: uint32(NB1), Pattern: 0},
			{Variant: uint32(NB2), Pattern: 1},
			{Variant: uint32(NB4), Pattern: 2},
			{Variant: uint32(NB8), Pattern: 3},
		},
	}
}
