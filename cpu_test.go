package chip8_test

import (
	"testing"

	"github.com/guslan/chip8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCpu(program []byte) *chip8.Cpu {
	cpu := chip8.NewCpu(chip8.NewMemory(), chip8.SmallScreen)
	cpu.LoadProgram(program)

	return cpu
}

func runNCycles(t *testing.T, program []byte, n int) *chip8.Cpu {
	t.Helper()

	cpu := newCpu(program)
	for i := 0; i < n; i++ {
		require.NoError(t, cpu.Step(), "cycle %d", i)
	}

	return cpu
}

func assertVxEq(t *testing.T, msg string, cpu *chip8.Cpu, x, kk byte) {
	t.Helper()
	assert.Equalf(t, kk, cpu.V[x], `%s: cpu.V[%X]`, msg, x)
}

// TestProgramLoading loads a program that jumps far away
func TestProgramLoading(t *testing.T) {
	cpu := newCpu([]byte{0x1A, 0xBC})
	assert.Equal(t, uint16(chip8.StartOfProgram), cpu.Pc)

	require.NoError(t, cpu.Step())
	assert.Equal(t, uint16(0xABC), cpu.Pc)
}

func TestConstantSetInstructions(t *testing.T) {
	program := []byte{
		// set v0 to 128
		0x60, 128,
		// set v1 to 16
		0x61, 16,
		// set v2 to 1
		0x62, 1,
		// add to v2 4
		0x72, 4,
	}
	cpu := runNCycles(t, program, 4)

	assertVxEq(t, "LD V0", cpu, 0x0, 128)
	assertVxEq(t, "LD V1", cpu, 0x1, 16)
	assertVxEq(t, "ADD V2", cpu, 0x2, 5)
}

func TestSimpleSkips(t *testing.T) {
	program := []byte{
		// set v0 to 128
		0x60, 128,
		// set v1 to 16
		0x61, 16,
		// set v2 to 128
		0x62, 128,

		// if v0 == 128, do not set v3 to 1
		0x30, 128,
		0x63, 1,

		// if v0 == 16, do not set vA to 1
		0x30, 16,
		0x6A, 1,

		// if v0 != 128, do not set v4 to 1
		0x40, 128,
		0x64, 1,

		// if v0 != 16, do not set vB to 1
		0x40, 16,
		0x6B, 1,

		// if v0 == v1, do not set v5 to 1
		0x50, 0x10,
		0x65, 1,

		// if v0 == v2, do not set v6 to 1
		0x50, 0x20,
		0x66, 1,

		// if v0 != v1, do not set v7 to 1
		0x90, 0x10,
		0x67, 1,

		// if v0 != v2, do not set v8 to 1
		0x90, 0x20,
		0x68, 1,
	}
	cpu := runNCycles(t, program, 15)

	assertVxEq(t, "SE Vx kk true", cpu, 0x3, 0x0)
	assertVxEq(t, "SE Vx kk false", cpu, 0xA, 0x1)
	assertVxEq(t, "SNE Vx kk true", cpu, 0xB, 0x0)
	assertVxEq(t, "SNE Vx kk false", cpu, 0x4, 0x1)
	assertVxEq(t, "SE Vx V2 true", cpu, 0x6, 0x0)
	assertVxEq(t, "SE Vx V1 false", cpu, 0x5, 0x1)
	assertVxEq(t, "SNE Vx V1 true", cpu, 0x7, 0x0)
	assertVxEq(t, "SNE Vx V2 false", cpu, 0x8, 0x1)
	assert.Equal(t, uint16(chip8.StartOfProgram+len(program)), cpu.Pc)
}

func TestAddImmediateWrapsWithoutFlag(t *testing.T) {
	cpu := runNCycles(t, []byte{0x6F, 0x55, 0x60, 0xFF, 0x70, 0x02}, 3)

	assertVxEq(t, "ADD V0", cpu, 0x0, 0x01)
	assertVxEq(t, "VF untouched", cpu, 0xF, 0x55)
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		vx, vy byte
		op     byte
		want   byte
		wantVf byte
	}{
		{"ADD no carry", 0x05, 0x03, 0x4, 0x08, 0},
		{"ADD carry", 0x80, 0x80, 0x4, 0x00, 1},
		{"ADD wraps", 0xFF, 0x02, 0x4, 0x01, 1},
		{"SUB no borrow", 0x05, 0x03, 0x5, 0x02, 1},
		{"SUB borrow", 0x03, 0x05, 0x5, 0xFE, 0},
		{"SUB equal", 0x05, 0x05, 0x5, 0x00, 0},
		{"SHR odd", 0x03, 0x00, 0x6, 0x01, 1},
		{"SHR even", 0x04, 0x00, 0x6, 0x02, 0},
		{"SUBN no borrow", 0x03, 0x05, 0x7, 0x02, 1},
		{"SUBN borrow", 0x05, 0x03, 0x7, 0xFE, 0},
		{"SHL high bit", 0x81, 0x00, 0xE, 0x02, 1},
		{"SHL low bits", 0x41, 0x00, 0xE, 0x82, 0},
		{"OR", 0xF0, 0x0F, 0x1, 0xFF, 0x42},
		{"AND", 0xF3, 0x0F, 0x2, 0x03, 0x42},
		{"XOR", 0xFF, 0x0F, 0x3, 0xF0, 0x42},
		{"LD", 0x11, 0x22, 0x0, 0x22, 0x42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := []byte{
				0x6F, 0x42,
				0x60, tt.vx,
				0x61, tt.vy,
				0x80, 0x10 | tt.op,
			}
			cpu := runNCycles(t, program, 4)

			assertVxEq(t, "result", cpu, 0x0, tt.want)
			assertVxEq(t, "flag", cpu, 0xF, tt.wantVf)
			assertVxEq(t, "Vy", cpu, 0x1, tt.vy)
		})
	}
}

// TestEndToEnd runs V0=5, V1=3, V0+=V1
func TestEndToEnd(t *testing.T) {
	cpu := runNCycles(t, []byte{0x60, 0x05, 0x61, 0x03, 0x80, 0x14}, 3)

	assertVxEq(t, "V0", cpu, 0x0, 8)
	assertVxEq(t, "VF", cpu, 0xF, 0)
	assert.Equal(t, uint16(chip8.StartOfProgram+6), cpu.Pc)
}

func TestIndexAndJumps(t *testing.T) {
	cpu := runNCycles(t, []byte{
		0xA1, 0x23, // I = 0x123
		0x60, 0x10, // V0 = 0x10
		0x61, 0x05, // V1 = 5
		0xF1, 0x1E, // I += V1
		0xB3, 0x00, // jump to 0x300 + V0
	}, 5)

	assert.Equal(t, uint16(0x128), cpu.I)
	assert.Equal(t, uint16(0x310), cpu.Pc)
}

func TestRandomIsMasked(t *testing.T) {
	cpu := newCpu([]byte{0xC0, 0x0F, 0xC1, 0xF0})
	cpu.Random = func() byte { return 0xAB }

	require.NoError(t, cpu.Step())
	require.NoError(t, cpu.Step())

	assertVxEq(t, "RND V0", cpu, 0x0, 0x0B)
	assertVxEq(t, "RND V1", cpu, 0x1, 0xA0)
}

func TestCallAndReturn(t *testing.T) {
	program := []byte{
		0x22, 0x06, // 0x200 call 0x206
		0x60, 0x01, // 0x202 V0 = 1
		0x12, 0x04, // 0x204 loop
		0x00, 0xEE, // 0x206 return
	}
	cpu := newCpu(program)

	require.NoError(t, cpu.Step())
	assert.Equal(t, uint16(0x206), cpu.Pc)
	assert.Equal(t, byte(1), cpu.Sp)
	assert.Equal(t, uint16(0x200), cpu.Stack[0])

	require.NoError(t, cpu.Step())
	assert.Equal(t, uint16(0x202), cpu.Pc)
	assert.Equal(t, byte(0), cpu.Sp)

	require.NoError(t, cpu.Step())
	assertVxEq(t, "after return", cpu, 0x0, 1)
}

func TestStackWrapsAround(t *testing.T) {
	// a subroutine that calls itself forever
	cpu := runNCycles(t, []byte{0x22, 0x00}, chip8.StackSize)
	assert.Equal(t, byte(chip8.StackSize), cpu.Sp)

	require.NoError(t, cpu.Step())
	assert.Equal(t, byte(1), cpu.Sp)
	assert.Equal(t, uint16(0x200), cpu.Stack[0])
	assert.Equal(t, uint16(0x200), cpu.Pc)
}

func TestReturnOnEmptyStackWraps(t *testing.T) {
	cpu := newCpu([]byte{0x00, 0xEE})
	cpu.Stack[chip8.StackSize-1] = 0x300

	require.NoError(t, cpu.Step())
	assert.Equal(t, byte(chip8.StackSize-1), cpu.Sp)
	assert.Equal(t, uint16(0x302), cpu.Pc)
}

func TestKeySkips(t *testing.T) {
	program := []byte{
		0x60, 0x05, // V0 = 5
		0xE0, 0x9E, // skip if 5 is pressed
		0x61, 0x01, // V1 = 1
		0xE0, 0xA1, // skip if 5 is not pressed
		0x62, 0x01, // V2 = 1
	}

	cpu := newCpu(program)
	cpu.Keys[5] = true
	for i := 0; i < 4; i++ {
		require.NoError(t, cpu.Step())
	}
	assertVxEq(t, "SKP pressed", cpu, 0x1, 0)
	assertVxEq(t, "SKNP pressed", cpu, 0x2, 1)

	cpu = newCpu(program)
	for i := 0; i < 4; i++ {
		require.NoError(t, cpu.Step())
	}
	assertVxEq(t, "SKP released", cpu, 0x1, 1)
	assertVxEq(t, "SKNP released", cpu, 0x2, 0)
}

func TestSkipOnKeyOutOfRange(t *testing.T) {
	cpu := newCpu([]byte{0x60, 0x42, 0xE0, 0x9E})
	cpu.Keys = chip8.KeyboardState{true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true}

	require.NoError(t, cpu.Step())
	require.NoError(t, cpu.Step())
	assert.Equal(t, uint16(0x204), cpu.Pc)
}

func TestWaitForKey(t *testing.T) {
	cpu := newCpu([]byte{0xF3, 0x0A})

	for i := 0; i < 3; i++ {
		require.NoError(t, cpu.Step())
		assert.Equal(t, uint16(0x200), cpu.Pc, "the PC must not move without a key")
	}

	cpu.Keys[9] = true
	cpu.Keys[7] = true
	require.NoError(t, cpu.Step())
	assertVxEq(t, "first key", cpu, 0x3, 7)
	assert.Equal(t, uint16(0x202), cpu.Pc)
}

func TestTimers(t *testing.T) {
	cpu := runNCycles(t, []byte{
		0x60, 0x03, // V0 = 3
		0xF0, 0x15, // DT = V0
		0xF0, 0x18, // ST = V0
	}, 3)
	assert.True(t, cpu.IsDelayTimerActive())
	assert.True(t, cpu.IsSoundTimerActive())

	for i := 3; i > 0; i-- {
		assert.Equal(t, byte(i), cpu.Dt)
		cpu.TickTimers()
	}
	assert.Equal(t, byte(0), cpu.Dt)
	assert.Equal(t, byte(0), cpu.St)

	cpu.TickTimers()
	assert.Equal(t, byte(0), cpu.Dt, "timers stop at 0")
	assert.False(t, cpu.IsDelayTimerActive())
}

func TestReadDelayTimer(t *testing.T) {
	cpu := runNCycles(t, []byte{0x60, 0x09, 0xF0, 0x15, 0xF1, 0x07}, 3)

	assertVxEq(t, "LD V1, DT", cpu, 0x1, 9)
}

func TestFontAddress(t *testing.T) {
	cpu := runNCycles(t, []byte{0x60, 0x0A, 0xF0, 0x29}, 2)

	assert.Equal(t, uint16(50), cpu.I)
	assert.Equal(t, byte(0xF0), cpu.Memory.Read(cpu.I))
}

func TestBCD(t *testing.T) {
	cpu := runNCycles(t, []byte{
		0x60, 156, // V0 = 156
		0xA3, 0x00, // I = 0x300
		0xF0, 0x33,
	}, 3)

	assert.Equal(t, byte(1), cpu.Memory.Read(0x300))
	assert.Equal(t, byte(5), cpu.Memory.Read(0x301))
	// the last digit is (156/100)%10
	assert.Equal(t, byte(1), cpu.Memory.Read(0x302))
	assert.Equal(t, uint16(0x300), cpu.I)
}

func TestStoreAndLoadRegisters(t *testing.T) {
	cpu := runNCycles(t, []byte{
		0x60, 0x11,
		0x61, 0x22,
		0x62, 0x33,
		0x63, 0x44,
		0xA3, 0x00, // I = 0x300
		0xF2, 0x55, // store V0..V2
	}, 6)

	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0x00}, cpu.Memory[0x300:0x304])
	assert.Equal(t, uint16(0x303), cpu.I)

	cpu = newCpu([]byte{
		0xA3, 0x00, // I = 0x300
		0xF1, 0x65, // load V0..V1
	})
	cpu.Memory.Write(0x300, 0xAA)
	cpu.Memory.Write(0x301, 0xBB)
	cpu.Memory.Write(0x302, 0xCC)
	require.NoError(t, cpu.Step())
	require.NoError(t, cpu.Step())

	assertVxEq(t, "V0", cpu, 0x0, 0xAA)
	assertVxEq(t, "V1", cpu, 0x1, 0xBB)
	assertVxEq(t, "V2", cpu, 0x2, 0x00)
	assert.Equal(t, uint16(0x302), cpu.I)
}

func TestDrawAndClear(t *testing.T) {
	program := []byte{
		0x60, 0x00, // V0 = 0
		0xA0, 0x00, // I = sprite of 0
		0xD0, 0x05, // draw
		0xD0, 0x05, // draw again
		0xD0, 0x05, // and once more
		0x00, 0xE0, // clear
	}
	cpu := runNCycles(t, program, 3)

	assertVxEq(t, "no collision", cpu, 0xF, 0)
	assert.Equal(t, byte(1), cpu.Screen.Pixel(0, 0))
	assert.Equal(t, byte(0), cpu.Screen.Pixel(1, 1))
	assert.True(t, cpu.Screen.IsDirty())

	require.NoError(t, cpu.Step())
	assertVxEq(t, "collision", cpu, 0xF, 1)
	assert.Equal(t, make(chip8.Screen, chip8.SmallScreen.Pixels()), cpu.Screen.Snapshot())

	require.NoError(t, cpu.Step())
	cpu.Screen.MarkPresented()
	require.NoError(t, cpu.Step())
	assert.Equal(t, make(chip8.Screen, chip8.SmallScreen.Pixels()), cpu.Screen.Snapshot())
	assert.True(t, cpu.Screen.IsDirty())
}

func TestUnknownOpCodes(t *testing.T) {
	for _, op := range []uint16{0x0123, 0x800F, 0xE0FF, 0xF0FF} {
		cpu := newCpu([]byte{byte(op >> 8), byte(op)})
		before := *cpu

		err := cpu.Step()

		var unknown chip8.ErrOpCodeUnknown
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, op, unknown.OpCode)
		assert.Equal(t, uint16(0x200), unknown.Pc)
		assert.Equal(t, uint16(0x202), cpu.Pc)
		assert.Equal(t, before.V, cpu.V)
		assert.Equal(t, before.I, cpu.I)
		assert.Equal(t, before.Sp, cpu.Sp)
	}
}

func TestReset(t *testing.T) {
	cpu := runNCycles(t, []byte{0x60, 0x05, 0xA3, 0x00, 0xF0, 0x55}, 3)
	require.Equal(t, byte(5), cpu.Memory.Read(0x300))

	cpu.Reset()

	assert.Equal(t, uint16(chip8.StartOfProgram), cpu.Pc)
	assert.Equal(t, [16]byte{}, cpu.V)
	assert.Equal(t, uint16(0), cpu.I)
	assert.Equal(t, byte(0), cpu.Memory.Read(0x300), "memory written by the program is restored")
	assert.Equal(t, byte(0x60), cpu.Memory.Read(0x200))
}
