package bytecode

import (
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// Pseudo-op values, fixed per spec §6.
const (
	OpNoop uint8 = iota
	OpPushImmediate
	OpLoadAddress
	OpStoreAddress
	OpBitShift
	OpBitwise
	OpIntegerArithmetic
	OpIntegerCompare
	OpFloatArithmetic
	OpFloatCompare
	OpPushFromRegister
	OpPopIntoRegister
	OpPop
	OpStackOffset
	OpCall
	OpReturn

	// OpExit has no entry in spec §6's table; §9's Open Questions leave
	// its pseudo-op unassigned. 16 (0b10000) is free and unambiguous, so
	// Exit claims it here — untested against the original since the
	// original never exercises it either.
	OpExit

	// OpJumpIfZero, OpJumpIfNotZero, and OpJump are likewise absent from
	// spec §6's table. §9 leaves open whether conditional/unconditional
	// jumps need to be decodable at all; this codec decodes them (not
	// just encodes), for the same round-trip-property coverage every
	// other instruction gets.
	OpJumpIfZero
	OpJumpIfNotZero
	OpJump
)

// Instruction is any decoded or about-to-be-encoded bytecode instruction.
type Instruction interface{ pseudoOp() uint8 }

type Noop struct{}

func (Noop) pseudoOp() uint8 { return OpNoop }

type PushImmediate struct {
	Bytes NumberOfBytes
	Shift uint8 // 0-31
	Value uint32
}

func (PushImmediate) pseudoOp() uint8 { return OpPushImmediate }

type LoadAddress struct {
	Mode    AddressingMode
	Bytes   NumberOfBytes
	Operand uint32
}

func (LoadAddress) pseudoOp() uint8 { return OpLoadAddress }

type StoreAddress struct {
	Mode    AddressingMode
	Bytes   NumberOfBytes
	Operand uint32
}

func (StoreAddress) pseudoOp() uint8 { return OpStoreAddress }

type BitShift struct {
	Direction ShiftDirection
	Bytes     NumberOfBytes
	Amount    uint16
}

func (BitShift) pseudoOp() uint8 { return OpBitShift }

type Bitwise struct {
	Op      BitwiseOp
	Bytes   NumberOfBytes
	Operand uint32
}

func (Bitwise) pseudoOp() uint8 { return OpBitwise }

type IntegerArithmetic struct {
	Op      ArithmeticOp
	Sign    SignFlag
	Bytes   NumberOfBytes
	Operand uint32
}

func (IntegerArithmetic) pseudoOp() uint8 { return OpIntegerArithmetic }

type IntegerCompare struct {
	Op      CompareOp
	Sign    SignFlag
	Bytes   NumberOfBytes
	Operand uint32
}

func (IntegerCompare) pseudoOp() uint8 { return OpIntegerCompare }

type FloatArithmetic struct {
	Op    FloatOp
	Bytes NumberOfBytes
}

func (FloatArithmetic) pseudoOp() uint8 { return OpFloatArithmetic }

type FloatCompare struct {
	Op    CompareOp
	Bytes NumberOfBytes
}

func (FloatCompare) pseudoOp() uint8 { return OpFloatCompare }

type PushFromRegister struct {
	Register ControlRegister
}

func (PushFromRegister) pseudoOp() uint8 { return OpPushFromRegister }

type PopIntoRegister struct {
	Register ControlRegister
}

func (PopIntoRegister) pseudoOp() uint8 { return OpPopIntoRegister }

type Pop struct {
	Bytes NumberOfBytes
}

func (Pop) pseudoOp() uint8 { return OpPop }

// StackOffset's operand is an unsigned displacement, per spec §6's
// explicit contract — §9 raises the question of a signed variant, and
// this codec keeps it unsigned rather than speculatively widening it.
type StackOffset struct {
	Offset uint32
}

func (StackOffset) pseudoOp() uint8 { return OpStackOffset }

type Call struct {
	Source CallSource
	Target uint32
}

func (Call) pseudoOp() uint8 { return OpCall }

type Return struct{}

func (Return) pseudoOp() uint8 { return OpReturn }

type Exit struct{}

func (Exit) pseudoOp() uint8 { return OpExit }

type JumpIfZero struct{ Target uint32 }

func (JumpIfZero) pseudoOp() uint8 { return OpJumpIfZero }

type JumpIfNotZero struct{ Target uint32 }

func (JumpIfNotZero) pseudoOp() uint8 { return OpJumpIfNotZero }

type Jump struct{ Target uint32 }

func (Jump) pseudoOp() uint8 { return OpJump }

func (Noop) String() string { return "noop" }
func (i PushImmediate) String() string {
	return fmt.Sprintf("push.imm%s %d<<%d", i.Bytes, i.Value, i.Shift)
}
func (i LoadAddress) String() string {
	return fmt.Sprintf("load.%s%s %d", i.Mode, i.Bytes, i.Operand)
}
func (i StoreAddress) String() string {
	return fmt.Sprintf("store.%s%s %d", i.Mode, i.Bytes, i.Operand)
}
func (i BitShift) String() string { return fmt.Sprintf("%s%s %d", i.Direction, i.Bytes, i.Amount) }
func (i Bitwise) String() string  { return fmt.Sprintf("%s%s %d", i.Op, i.Bytes, i.Operand) }
func (i IntegerArithmetic) String() string {
	return fmt.Sprintf("i%s.%s%s %d", i.Op, i.Sign, i.Bytes, i.Operand)
}
func (i IntegerCompare) String() string {
	return fmt.Sprintf("i%s.%s%s %d", i.Op, i.Sign, i.Bytes, i.Operand)
}
func (i FloatArithmetic) String() string  { return fmt.Sprintf("%s%s", i.Op, i.Bytes) }
func (i FloatCompare) String() string     { return fmt.Sprintf("f%s%s", i.Op, i.Bytes) }
func (i PushFromRegister) String() string { return fmt.Sprintf("push.reg %s", i.Register) }
func (i PopIntoRegister) String() string  { return fmt.Sprintf("pop.reg %s", i.Register) }
func (i Pop) String() string              { return fmt.Sprintf("pop%s", i.Bytes) }
func (i StackOffset) String() string      { return fmt.Sprintf("stackoffset %d", i.Offset) }
func (i Call) String() string             { return fmt.Sprintf("call.%s %d", i.Source, i.Target) }
func (Return) String() string             { return "return" }
func (Exit) String() string               { return "exit" }
func (i JumpIfZero) String() string       { return fmt.Sprintf("jz %d", i.Target) }
func (i JumpIfNotZero) String() string    { return fmt.Sprintf("jnz %d", i.Target) }
func (i Jump) String() string             { return fmt.Sprintf("jmp %d", i.Target) }

// InstructionTable holds one BitLayout per pseudo-op, grounded in the
// pony-lang original's LayoutHelper — the per-pseudo-op layout map it
// builds by hand, here built once and reused for every Encode/Decode
// call instead of being reconstructed per instruction.
type InstructionTable struct {
	layouts map[uint8]BitLayout
}

func bitPattern2(name string, pairs ...uint32) LayoutPart {
	entries := make([]BitPatternEntry, len(pairs))
	for i, v := range pairs {
		entries[i] = BitPatternEntry{Variant: v, Pattern: uint32(i)}
	}
	return LayoutPart{Name: name, Kind: BitPatternKind, Length: bitsFor(len(pairs)), Patterns: entries}
}

func bitsFor(nVariants int) int {
	bits := 0
	for (1 << uint(bits)) < nVariants {
		bits++
	}
	if bits == 0 {
		bits = 1
	}
	return bits
}

func immediate(name string, length int) LayoutPart {
	return LayoutPart{Name: name, Kind: ImmediateKind, Length: length}
}

// NewInstructionTable builds the fixed instruction table described above.
func NewInstructionTable() *InstructionTable {
	t := &InstructionTable{layouts: make(map[uint8]BitLayout)}

	addrMode := bitPattern2("mode", uint32(AddrStack), uint32(AddrRelativeForward), uint32(AddrRelativeBackward), uint32(AddrAbsolute))
	shiftDir := bitPattern2("direction", uint32(ShiftLeft), uint32(ShiftRight))
	signFlag := bitPattern2("sign", uint32(Signed), uint32(Unsigned))
	bitwiseOp := bitPattern2("op", uint32(BitAnd), uint32(BitOr), uint32(BitXor), uint32(BitNot))
	arithOp := bitPattern2("op", uint32(ArithAdd), uint32(ArithSub), uint32(ArithMul), uint32(ArithDiv), uint32(ArithMod))
	compareOp := bitPattern2("op", uint32(CmpEq), uint32(CmpNeq), uint32(CmpLt), uint32(CmpLte), uint32(CmpGt), uint32(CmpGte))
	floatOp := bitPattern2("op", uint32(FloatAdd), uint32(FloatSub), uint32(FloatMul), uint32(FloatDiv))
	register := bitPattern2("register", uint32(RegStackPointer), uint32(RegBasePointer), uint32(RegInstructionPointer), uint32(RegReturnAddress), uint32(RegAccumulator))
	callSource := bitPattern2("source", uint32(CallDirect), uint32(CallIndirect))

	t.layouts[OpNoop] = BitLayout{PseudoOp: OpNoop}

	t.layouts[OpPushImmediate] = BitLayout{PseudoOp: OpPushImmediate, Parts: []LayoutPart{
		numberOfBytesPart("bytes"),
		immediate("shift", 5),
		immediate("value", 16),
	}}

	t.layouts[OpLoadAddress] = BitLayout{PseudoOp: OpLoadAddress, Parts: []LayoutPart{
		addrMode,
		numberOfBytesPart("bytes"),
		immediate("operand", 23),
	}}

	t.layouts[OpStoreAddress] = BitLayout{PseudoOp: OpStoreAddress, Parts: []LayoutPart{
		addrMode,
		numberOfBytesPart("bytes"),
		immediate("operand", 23),
	}}

	t.layouts[OpBitShift] = BitLayout{PseudoOp: OpBitShift, Parts: []LayoutPart{
		shiftDir,
		numberOfBytesPart("bytes"),
		immediate("amount", 10),
	}}

	t.layouts[OpBitwise] = BitLayout{PseudoOp: OpBitwise, Parts: []LayoutPart{
		bitwiseOp,
		numberOfBytesPart("bytes"),
		immediate("operand", 17),
	}}

	t.layouts[OpIntegerArithmetic] = BitLayout{PseudoOp: OpIntegerArithmetic, Parts: []LayoutPart{
		arithOp,
		signFlag,
		numberOfBytesPart("bytes"),
		immediate("operand", 17),
	}}

	t.layouts[OpIntegerCompare] = BitLayout{PseudoOp: OpIntegerCompare, Parts: []LayoutPart{
		compareOp,
		signFlag,
		numberOfBytesPart("bytes"),
		immediate("operand", 17),
	}}

	t.layouts[OpFloatArithmetic] = BitLayout{PseudoOp: OpFloatArithmetic, Parts: []LayoutPart{
		floatOp,
		bitPattern2("bytes", uint32(NB4), uint32(NB8)),
		immediate("reserved", 2),
	}}

	t.layouts[OpFloatCompare] = BitLayout{PseudoOp: OpFloatCompare, Parts: []LayoutPart{
		compareOp,
		bitPattern2("bytes", uint32(NB4), uint32(NB8)),
	}}

	t.layouts[OpPushFromRegister] = BitLayout{PseudoOp: OpPushFromRegister, Parts: []LayoutPart{register}}
	t.layouts[OpPopIntoRegister] = BitLayout{PseudoOp: OpPopIntoRegister, Parts: []LayoutPart{register}}

	t.layouts[OpPop] = BitLayout{PseudoOp: OpPop, Parts: []LayoutPart{numberOfBytesPart("bytes")}}

	t.layouts[OpStackOffset] = BitLayout{PseudoOp: OpStackOffset, Parts: []LayoutPart{immediate("offset", 27)}}

	t.layouts[OpCall] = BitLayout{PseudoOp: OpCall, Parts: []LayoutPart{
		callSource,
		immediate("target", 26),
	}}

	t.layouts[OpReturn] = BitLayout{PseudoOp: OpReturn}
	t.layouts[OpExit] = BitLayout{PseudoOp: OpExit}

	t.layouts[OpJumpIfZero] = BitLayout{PseudoOp: OpJumpIfZero, Parts: []LayoutPart{immediate("target", 27)}}
	t.layouts[OpJumpIfNotZero] = BitLayout{PseudoOp: OpJumpIfNotZero, Parts: []LayoutPart{immediate("target", 27)}}
	t.layouts[OpJump] = BitLayout{PseudoOp: OpJump, Parts: []LayoutPart{immediate("target", 27)}}

	return t
}

// Stats reports per-table diagnostic counts, formatted with go-humanize
// the way typedb.Summary does.
func (t *InstructionTable) Stats() string {
	parts := 0
	for _, l := range t.layouts {
		parts += len(l.Parts)
	}
	return fmt.Sprintf("%s pseudo-ops, %s parts total",
		humanize.Comma(int64(len(t.layouts))), humanize.Comma(int64(parts)))
}

// Encoder encodes Instruction values into 32-bit words using an
// InstructionTable's layouts.
type Encoder struct{ table *InstructionTable }

// NewEncoder returns an Encoder bound to table.
func NewEncoder(table *InstructionTable) *Encoder { return &Encoder{table: table} }

// Encode packs inst into its 32-bit wire representation.
func (e *Encoder) Encode(inst Instruction) (uint32, error) {
	layout, ok := e.table.layouts[inst.pseudoOp()]
	if !ok {
		return 0, errors.Errorf("no layout for pseudo-op %d", inst.pseudoOp())
	}
	values, err := fieldsOf(inst)
	if err != nil {
		return 0, err
	}
	return layout.Encode(values)
}

func fieldsOf(inst Instruction) (map[string]uint32, error) {
	switch i := inst.(type) {
	case Noop, Return, Exit:
		return map[string]uint32{}, nil
	case PushImmediate:
		return map[string]uint32{"bytes": uint32(i.Bytes), "shift": uint32(i.Shift), "value": i.Value}, nil
	case LoadAddress:
		return map[string]uint32{"mode": uint32(i.Mode), "bytes": uint32(i.Bytes), "operand": i.Operand}, nil
	case StoreAddress:
		return map[string]uint32{"mode": uint32(i.Mode), "bytes": uint32(i.Bytes), "operand": i.Operand}, nil
	case BitShift:
		return map[string]uint32{"direction": uint32(i.Direction), "bytes": uint32(i.Bytes), "amount": uint32(i.Amount)}, nil
	case Bitwise:
		return map[string]uint32{"op": uint32(i.Op), "bytes": uint32(i.Bytes), "operand": i.Operand}, nil
	case IntegerArithmetic:
		return map[string]uint32{"op": uint32(i.Op), "sign": uint32(i.Sign), "bytes": uint32(i.Bytes), "operand": i.Operand}, nil
	case IntegerCompare:
		return map[string]uint32{"op": uint32(i.Op), "sign": uint32(i.Sign), "bytes": uint32(i.Bytes), "operand": i.Operand}, nil
	case FloatArithmetic:
		return map[string]uint32{"op": uint32(i.Op), "bytes": uint32(i.Bytes), "reserved": 0}, nil
	case FloatCompare:
		return map[string]uint32{"op": uint32(i.Op), "bytes": uint32(i.Bytes)}, nil
	case PushFromRegister:
		return map[string]uint32{"register": uint32(i.Register)}, nil
	case PopIntoRegister:
		return map[string]uint32{"register": uint32(i.Register)}, nil
	case Pop:
		return map[string]uint32{"bytes": uint32(i.Bytes)}, nil
	case StackOffset:
		return map[string]uint32{"offset": i.Offset}, nil
	case Call:
		return map[string]uint32{"source": uint32(i.Source), "target": i.Target}, nil
	case JumpIfZero:
		return map[string]uint32{"target": i.Target}, nil
	case JumpIfNotZero:
		return map[string]uint32{"target": i.Target}, nil
	case Jump:
		return map[string]uint32{"target": i.Target}, nil
	default:
		return nil, errors.Errorf("unhandled instruction type %T", inst)
	}
}

// Decoder decodes 32-bit words into Instruction values.
type Decoder struct{ table *InstructionTable }

// NewDecoder returns a Decoder bound to table.
func NewDecoder(table *InstructionTable) *Decoder { return &Decoder{table: table} }

// Decode unpacks word into its Instruction, or an error if its pseudo-op
// or any part's bit pattern is unrecognized.
func (d *Decoder) Decode(word uint32) (Instruction, error) {
	pseudoOp := uint8((word >> 27) & 0x1F)
	layout, ok := d.table.layouts[pseudoOp]
	if !ok {
		return nil, errors.Errorf("unrecognized pseudo-op %d", pseudoOp)
	}
	_, values, err := layout.Decode(word)
	if err != nil {
		return nil, err
	}
	switch pseudoOp {
	case OpNoop:
		return Noop{}, nil
	case OpPushImmediate:
		return PushImmediate{Bytes: NumberOfBytes(values["bytes"]), Shift: uint8(values["shift"]), Value: values["value"]}, nil
	case OpLoadAddress:
		return LoadAddress{Mode: AddressingMode(values["mode"]), Bytes: NumberOfBytes(values["bytes"]), Operand: values["operand"]}, nil
	case OpStoreAddress:
		return StoreAddress{Mode: AddressingMode(values["mode"]), Bytes: NumberOfBytes(values["bytes"]), Operand: values["operand"]}, nil
	case OpBitShift:
		return BitShift{Direction: ShiftDirection(values["direction"]), Bytes: NumberOfBytes(values["bytes"]), Amount: uint16(values["amount"])}, nil
	case OpBitwise:
		return Bitwise{Op: BitwiseOp(values["op"]), Bytes: NumberOfBytes(values["bytes"]), Operand: values["operand"]}, nil
	case OpIntegerArithmetic:
		return IntegerArithmetic{Op: ArithmeticOp(values["op"]), Sign: SignFlag(values["sign"]), Bytes: NumberOfBytes(values["bytes"]), Operand: values["operand"]}, nil
	case OpIntegerCompare:
		return IntegerCompare{Op: CompareOp(values["op"]), Sign: SignFlag(values["sign"]), Bytes: NumberOfBytes(values["bytes"]), Operand: values["operand"]}, nil
	case OpFloatArithmetic:
		return FloatArithmetic{Op: FloatOp(values["op"]), Bytes: NumberOfBytes(values["bytes"])}, nil
	case OpFloatCompare:
		return FloatCompare{Op: CompareOp(values["op"]), Bytes: NumberOfBytes(values["bytes"])}, nil
	case OpPushFromRegister:
		return PushFromRegister{Register: ControlRegister(values["register"])}, nil
	case OpPopIntoRegister:
		return PopIntoRegister{Register: ControlRegister(values["register"])}, nil
	case OpPop:
		return Pop{Bytes: NumberOfBytes(values["bytes"])}, nil
	case OpStackOffset:
		return StackOffset{Offset: values["offset"]}, nil
	case OpCall:
		return Call{Source: CallSource(values["source"]), Target: values["target"]}, nil
	case OpReturn:
		return Return{}, nil
	case OpExit:
		return Exit{}, nil
	case OpJumpIfZero:
		return JumpIfZero{Target: values["target"]}, nil
	case OpJumpIfNotZero:
		return JumpIfNotZero{Target: values["target"]}, nil
	case OpJump:
		return Jump{Target: values["target"]}, nil
	default:
		return nil, errors.Errorf("unhandled pseudo-op %d", pseudoOp)
	}
}
