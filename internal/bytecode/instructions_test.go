package bytecode

import "testing"

func roundTrip(t *testing.T, inst Instruction) Instruction {
	t.Helper()
	table := NewInstructionTable()
	enc := NewEncoder(table)
	dec := NewDecoder(table)

	word, err := enc.Encode(inst)
	if err != nil {
		t.Fatalf("Encode(%v) error: %v", inst, err)
	}
	got, err := dec.Decode(word)
	if err != nil {
		t.Fatalf("Decode(%#x) error: %v", word, err)
	}
	return got
}

func TestPushImmediateRoundTrip(t *testing.T) {
	for _, value := range []uint32{0, 1, 4000, 8192, 0xFFFF} {
		want := PushImmediate{Bytes: NB4, Shift: 17, Value: value}
		got := roundTrip(t, want)
		if got != Instruction(want) {
			t.Fatalf("round trip mismatch for value %d: got %#v, want %#v", value, got, want)
		}
	}
}

func TestLoadStoreAddressRoundTrip(t *testing.T) {
	load := LoadAddress{Mode: AddrRelativeBackward, Bytes: NB8, Operand: 0x3FFFFF}
	if got := roundTrip(t, load); got != Instruction(load) {
		t.Fatalf("LoadAddress round trip mismatch: got %#v, want %#v", got, load)
	}

	store := StoreAddress{Mode: AddrAbsolute, Bytes: NB1, Operand: 12345}
	if got := roundTrip(t, store); got != Instruction(store) {
		t.Fatalf("StoreAddress round trip mismatch: got %#v, want %#v", got, store)
	}
}

func TestStackOffsetFullRange(t *testing.T) {
	for _, offset := range []uint32{0, 1, 0x3FFFFFF, 0x7FFFFFF} {
		want := StackOffset{Offset: offset}
		got := roundTrip(t, want)
		if got != Instruction(want) {
			t.Fatalf("StackOffset(%d) round trip mismatch: got %#v", offset, got)
		}
	}
}

func TestIntegerArithmeticRoundTrip(t *testing.T) {
	want := IntegerArithmetic{Op: ArithMod, Sign: Unsigned, Bytes: NB2, Operand: 77}
	got := roundTrip(t, want)
	if got != Instruction(want) {
		t.Fatalf("round trip mismatch: got %#v, want %#v", got, want)
	}
}

func TestCallAndJumpsRoundTrip(t *testing.T) {
	call := Call{Source: CallIndirect, Target: 99999}
	if got := roundTrip(t, call); got != Instruction(call) {
		t.Fatalf("Call round trip mismatch: got %#v, want %#v", got, call)
	}

	jz := JumpIfZero{Target: 42}
	if got := roundTrip(t, jz); got != Instruction(jz) {
		t.Fatalf("JumpIfZero round trip mismatch: got %#v, want %#v", got, jz)
	}

	jmp := Jump{Target: 1}
	if got := roundTrip(t, jmp); got != Instruction(jmp) {
		t.Fatalf("Jump round trip mismatch: got %#v, want %#v", got, jmp)
	}
}

func TestNiladicInstructionsRoundTrip(t *testing.T) {
	for _, inst := range []Instruction{Noop{}, Return{}, Exit{}} {
		if got := roundTrip(t, inst); got != inst {
			t.Fatalf("round trip mismatch for %#v: got %#v", inst, got)
		}
	}
}

func TestDecodeUnrecognizedPseudoOp(t *testing.T) {
	table := NewInstructionTable()
	dec := NewDecoder(table)
	// Pseudo-op 31 (0b11111) is not assigned to any instruction.
	if _, err := dec.Decode(uint32(31) << 27); err == nil {
		t.Fatalf("expected an error decoding an unassigned pseudo-op")
	}
}
