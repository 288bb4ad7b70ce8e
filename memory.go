package chip8

const (
	// StartOfProgram is where programs are loaded and where the PC starts
	StartOfProgram = 0x200

	MemorySize = 4096

	// MaxProgramSize is the number of bytes that fit between StartOfProgram and the end of memory
	MaxProgramSize = MemorySize - StartOfProgram

	addressMask = MemorySize - 1

	fontSpriteSize = 5
)

type Memory [MemorySize]byte

// NewMemory creates a 4096 bytes memory with the font sprites loaded at address 0
func NewMemory() *Memory {
	m := Memory([MemorySize]byte{})
	loadCharactersInto(&m)

	return &m
}

func (mem Memory) Clone() *Memory {
	m := Memory{}

	copy(m[:], mem[:])

	return &m
}

// LoadProgram copies the program at the start-of-program address.
// Bytes that do not fit are dropped. Returns how many bytes were stored.
func (mem *Memory) LoadProgram(program []byte) int {
	return copy(mem[StartOfProgram:], program)
}

// Read returns the byte at addr. Addresses wrap at the memory size.
func (mem *Memory) Read(addr uint16) byte {
	return mem[addr&addressMask]
}

// Write stores v at addr. Addresses wrap at the memory size.
func (mem *Memory) Write(addr uint16, v byte) {
	mem[addr&addressMask] = v
}

// Fetch reads the big-endian instruction at addr
func (mem *Memory) Fetch(addr uint16) uint16 {
	return uint16(mem.Read(addr))<<8 | uint16(mem.Read(addr+1))
}

// FontAddress returns the address of the sprite for the hex digit d
func FontAddress(d byte) uint16 {
	return uint16(d) * fontSpriteSize
}

func loadCharactersInto(mem *Memory) {
	copy(mem[:], []byte{
		// 0
		0xF0, 0x90, 0x90, 0x90, 0xF0,
		// 1
		0x20, 0x60, 0x20, 0x20, 0x70,
		// 2
		0xF0, 0x10, 0xF0, 0x80, 0xF0,
		// 3
		0xF0, 0x10, 0xF0, 0x10, 0xF0,
		// 4
		0x90, 0x90, 0xF0, 0x10, 0x10,
		// 5
		0xF0, 0x80, 0xF0, 0x10, 0xF0,
		// 6
		0xF0, 0x80, 0xF0, 0x90, 0xF0,
		// 7
		0xF0, 0x10, 0x20, 0x40, 0x40,
		// 8
		0xF0, 0x90, 0xF0, 0x90, 0xF0,
		// 9
		0xF0, 0x90, 0xF0, 0x10, 0xF0,
		// A
		0xF0, 0x90, 0xF0, 0x90, 0x90,
		// B
		0xE0, 0x90, 0xE0, 0x90, 0xE0,
		// C
		0xF0, 0x80, 0x80, 0x80, 0xF0,
		// D
		0xE0, 0x90, 0x90, 0x90, 0xE0,
		// E
		0xF0, 0x80, 0xF0, 0x80, 0xF0,
		// F
		0xF0, 0x80, 0xF0, 0x80, 0x80})
}
