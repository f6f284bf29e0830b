package mips

type (
	Reg string
	Op  string
)

const WordSize = 4

const (
	Zero Reg = "$0"
	T0   Reg = "$t0"
	T1   Reg = "$t1"
	SP   Reg = "$sp"
	RA   Reg = "$ra"

	// Acc holds the value of every generated expression.
	Acc = T0
	// Sec holds the other operand of a binary operation.
	Sec = T1
)

const (
	MOVE  Op = "move"
	LI    Op = "li"
	LW    Op = "lw"
	SW    Op = "sw"
	XOR   Op = "xor"
	ORI   Op = "ori"
	ADDIU Op = "addiu"
	ADDU  Op = "addu"
	SUBU  Op = "subu"
	MUL   Op = "mul"
	DIV   Op = "div"
	SLT   Op = "slt"

	BEQ Op = "beq"
	BNE Op = "bne"
	BLE Op = "ble"
	BGT Op = "bgt"
	BGE Op = "bge"

	J   Op = "j"
	JAL Op = "jal"
	JR  Op = "jr"
)

// Regs lists every register name the target knows, with aliases.
var Regs = map[string]int{
	"$0":    0,
	"$zero": 0,
	"$t0":   8,
	"$t1":   9,
	"$sp":   29,
	"$ra":   31,
}
