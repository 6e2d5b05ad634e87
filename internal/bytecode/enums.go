package bytecode

// NumberOfBytes is the operand width of an instruction that reads or
// writes memory or performs arithmetic.
type NumberOfBytes uint8

const (
	NB1 NumberOfBytes = iota
	NB2
	NB4
	NB8
)

func (n NumberOfBytes) String() string {
	switch n {
	case NB1:
		return "1"
	case NB2:
		return "2"
	case NB4:
		return "4"
	case NB8:
		return "8"
	default:
		return "?"
	}
}

// AddressingMode selects how LoadAddress/StoreAddress interpret their
// operand.
type AddressingMode uint8

const (
	AddrStack AddressingMode = iota
	AddrRelativeForward
	AddrRelativeBackward
	AddrAbsolute
)

func (m AddressingMode) String() string {
	switch m {
	case AddrStack:
		return "stack"
	case AddrRelativeForward:
		return "relative+"
	case AddrRelativeBackward:
		return "relative-"
	case AddrAbsolute:
		return "absolute"
	default:
		return "?"
	}
}

// ShiftDirection selects BitShift's direction.
type ShiftDirection uint8

const (
	ShiftLeft ShiftDirection = iota
	ShiftRight
)

func (d ShiftDirection) String() string {
	if d == ShiftLeft {
		return "shl"
	}
	return "shr"
}

// SignFlag selects signed vs unsigned interpretation for integer
// arithmetic and comparison.
type SignFlag uint8

const (
	Signed SignFlag = iota
	Unsigned
)

func (s SignFlag) String() string {
	if s == Signed {
		return "signed"
	}
	return "unsigned"
}

// BitwiseOp enumerates Bitwise's operation.
type BitwiseOp uint8

const (
	BitAnd BitwiseOp = iota
	BitOr
	BitXor
	BitNot
)

func (o BitwiseOp) String() string {
	switch o {
	case BitAnd:
		return "and"
	case BitOr:
		return "or"
	case BitXor:
		return "xor"
	case BitNot:
		return "not"
	default:
		return "?"
	}
}

// ArithmeticOp enumerates IntegerArithmetic's operation.
type ArithmeticOp uint8

const (
	ArithAdd ArithmeticOp = iota
	ArithSub
	ArithMul
	ArithDiv
	ArithMod
)

func (o ArithmeticOp) String() string {
	switch o {
	case ArithAdd:
		return "add"
	case ArithSub:
		return "sub"
	case ArithMul:
		return "mul"
	case ArithDiv:
		return "div"
	case ArithMod:
		return "mod"
	default:
		return "?"
	}
}

// CompareOp enumerates IntegerCompare's operation.
type CompareOp uint8

const (
	CmpEq CompareOp = iota
	CmpNeq
	CmpLt
	CmpLte
	CmpGt
	CmpGte
)

func (o CompareOp) String() string {
	switch o {
	case CmpEq:
		return "eq"
	case CmpNeq:
		return "neq"
	case CmpLt:
		return "lt"
	case CmpLte:
		return "lte"
	case CmpGt:
		return "gt"
	case CmpGte:
		return "gte"
	default:
		return "?"
	}
}

// FloatOp enumerates FloatArithmetic/FloatCompare's operation.
type FloatOp uint8

const (
	FloatAdd FloatOp = iota
	FloatSub
	FloatMul
	FloatDiv
)

func (o FloatOp) String() string {
	switch o {
	case FloatAdd:
		return "fadd"
	case FloatSub:
		return "fsub"
	case FloatMul:
		return "fmul"
	case FloatDiv:
		return "fdiv"
	default:
		return "?"
	}
}

// ControlRegister enumerates the machine registers PushFromRegister and
// PopIntoRegister can address.
type ControlRegister uint8

const (
	RegStackPointer ControlRegister = iota
	RegBasePointer
	RegInstructionPointer
	RegReturnAddress
	RegAccumulator
)

func (r ControlRegister) String() string {
	switch r {
	case RegStackPointer:
		return "sp"
	case RegBasePointer:
		return "bp"
	case RegInstructionPointer:
		return "ip"
	case RegReturnAddress:
		return "ra"
	case RegAccumulator:
		return "acc"
	default:
		return "?"
	}
}

// CallSource selects whether Call's target is encoded directly in the
// instruction word or must be fetched from a register.
type CallSource uint8

const (
	CallDirect CallSource = iota
	CallIndirect
)

func (c CallSource) String() string {
	if c == CallDirect {
		return "direct"
	}
	return "indirect"
}
