package chip8

import (
	"crypto/rand"
	"fmt"
)

type ErrOpCodeUnknown struct {
	OpCode uint16
	Pc     uint16
}

func (err ErrOpCodeUnknown) Error() string {
	return fmt.Sprintf("unknown opcode=%04X at PC=%03X", err.OpCode, err.Pc)
}

const StackSize = 16

// RandomSource provides the bytes for RND
type RandomSource func() byte

// Chip-8 CPU
type Cpu struct {
	Memory *Memory
	// V 8-bit registers
	V [16]byte
	// I 16-bit register (12-bit usable)
	I uint16
	// Delay timer register
	Dt byte
	// Sound timer register
	St byte
	// Program counter
	Pc uint16
	// Stack pointer, in [0, 16]
	Sp byte
	// Stack
	Stack [StackSize]uint16

	Screen *FrameBuffer
	Keys   KeyboardState

	Random RandomSource

	// the memory image restored by Reset
	image *Memory
}

func NewCpu(memory *Memory, screenSettings ScreenSettings) *Cpu {
	return &Cpu{
		Memory: memory,

		V:     [16]byte{},
		I:     0,
		Dt:    0,
		St:    0,
		Pc:    StartOfProgram,
		Sp:    0,
		Stack: [StackSize]uint16{},

		Screen: NewFrameBuffer(screenSettings),
		Keys:   KeyboardState{},

		Random: cryptoRandomByte,

		image: memory.Clone(),
	}
}

func cryptoRandomByte() byte {
	buff := [1]byte{}
	// crypto/rand.Read never fails on supported platforms
	_, _ = rand.Read(buff[:])

	return buff[0]
}

func (cpu Cpu) IsSoundTimerActive() bool {
	return cpu.St > 0
}

func (cpu Cpu) IsDelayTimerActive() bool {
	return cpu.Dt > 0
}

// LoadProgram loads the program into memory and resets the CPU.
// Returns how many bytes of the program fit into memory.
func (cpu *Cpu) LoadProgram(program []byte) int {
	cpu.Memory = NewMemory()
	n := cpu.Memory.LoadProgram(program)
	cpu.image = cpu.Memory.Clone()
	cpu.Reset()

	return n
}

// Reset puts the CPU back in its boot state with the last loaded program
func (cpu *Cpu) Reset() {
	cpu.Memory = cpu.image.Clone()
	cpu.V = [16]byte{}
	cpu.I = 0
	cpu.Dt = 0
	cpu.St = 0
	cpu.Pc = StartOfProgram
	cpu.Sp = 0
	cpu.Stack = [StackSize]uint16{}
	cpu.Keys = KeyboardState{}
	cpu.Screen.Clear()
}

// Step fetches, decodes and executes a single instruction.
// An unknown instruction only advances the PC; the returned
// ErrOpCodeUnknown is informative.
func (cpu *Cpu) Step() error {
	return cpu.executeInstruction(opCode(cpu.Memory.Fetch(cpu.Pc)))
}

// TickTimers decrements the non-zero timers by one
func (cpu *Cpu) TickTimers() {
	if cpu.Dt > 0 {
		cpu.Dt--
	}
	if cpu.St > 0 {
		cpu.St--
	}
}

func (cpu *Cpu) push(addr uint16) {
	if cpu.Sp >= StackSize {
		cpu.Sp = 0
	}
	cpu.Stack[cpu.Sp] = addr
	cpu.Sp++
}

func (cpu *Cpu) pop() uint16 {
	if cpu.Sp == 0 {
		cpu.Sp = StackSize
	}
	cpu.Sp--

	return cpu.Stack[cpu.Sp]
}

func bool2byte(b bool) byte {
	if b {
		return 1
	}

	return 0
}
