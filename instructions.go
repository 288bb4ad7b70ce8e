package chip8

type opCode uint16

func (op opCode) class() uint16 { return uint16(op) & 0xF000 }
func (op opCode) x() uint16     { return (uint16(op) & 0x0F00) >> 8 }
func (op opCode) y() uint16     { return (uint16(op) & 0x00F0) >> 4 }
func (op opCode) n() byte       { return byte(op & 0x000F) }
func (op opCode) kk() byte      { return byte(op & 0x00FF) }
func (op opCode) nnn() uint16   { return uint16(op) & 0x0FFF }

func (cpu *Cpu) next() {
	cpu.Pc += 2
}

func (cpu *Cpu) skipIf(cond bool) {
	if cond {
		cpu.Pc += 4
	} else {
		cpu.Pc += 2
	}
}

func (cpu *Cpu) unknown(op opCode) error {
	err := ErrOpCodeUnknown{
		OpCode: uint16(op),
		Pc:     cpu.Pc,
	}
	cpu.next()

	return err
}

func (cpu *Cpu) executeInstruction(op opCode) error {
	x, y := op.x(), op.y()
	kk := op.kk()

	switch op.class() {
	case 0x0000:
		switch op.kk() {
		case 0xE0:
			// CLS :: Clear the display.
			cpu.Screen.Clear()

		case 0xEE:
			// RET :: Return from a subroutine.
			// The stack holds the address of the CALL itself.
			cpu.Pc = cpu.pop()

		default:
			// SYS addr :: machine code routines are not supported.
			return cpu.unknown(op)
		}
		cpu.next()

	case 0x1000:
		// JP addr :: Jump to location nnn.
		cpu.Pc = op.nnn()

	case 0x2000:
		// CALL addr :: Call subroutine at nnn.
		cpu.push(cpu.Pc)
		cpu.Pc = op.nnn()

	case 0x3000:
		// SE Vx, byte :: Skip next instruction if Vx = kk.
		cpu.skipIf(cpu.V[x] == kk)

	case 0x4000:
		// SNE Vx, byte :: Skip next instruction if Vx != kk.
		cpu.skipIf(cpu.V[x] != kk)

	case 0x5000:
		// SE Vx, Vy :: Skip next instruction if Vx = Vy.
		cpu.skipIf(cpu.V[x] == cpu.V[y])

	case 0x6000:
		// LD Vx, byte :: Set Vx = kk.
		cpu.V[x] = kk
		cpu.next()

	case 0x7000:
		// ADD Vx, byte :: Set Vx = Vx + kk.
		cpu.V[x] += kk
		cpu.next()

	case 0x8000:
		// Inter-register operations

		switch op.n() {
		case 0x0:
			// LD Vx, Vy :: Set Vx = Vy.
			cpu.V[x] = cpu.V[y]

		case 0x1:
			// OR Vx, Vy :: Set Vx = Vx OR Vy.
			cpu.V[x] |= cpu.V[y]

		case 0x2:
			// AND Vx, Vy :: Set Vx = Vx AND Vy.
			cpu.V[x] &= cpu.V[y]

		case 0x3:
			// XOR Vx, Vy :: Set Vx = Vx XOR Vy.
			cpu.V[x] ^= cpu.V[y]

		case 0x4:
			// ADD Vx, Vy :: Set Vx = Vx + Vy, set VF = carry.
			// The carry is derived from the wrapped sum.
			cpu.V[x] += cpu.V[y]
			cpu.V[0xF] = bool2byte(cpu.V[x] < cpu.V[y])

		case 0x5:
			// SUB Vx, Vy :: Set Vx = Vx - Vy, set VF = NOT borrow.
			cpu.V[0xF] = bool2byte(cpu.V[x] > cpu.V[y])
			cpu.V[x] -= cpu.V[y]

		case 0x6:
			// SHR Vx {, Vy} :: Set Vx = Vx SHR 1.
			cpu.V[0xF] = cpu.V[x] & 0b00000001
			cpu.V[x] >>= 1

		case 0x7:
			// SUBN Vx, Vy :: Set Vx = Vy - Vx, set VF = NOT borrow.
			cpu.V[0xF] = bool2byte(cpu.V[y] > cpu.V[x])
			cpu.V[x] = cpu.V[y] - cpu.V[x]

		case 0xE:
			// SHL Vx {, Vy} :: Set Vx = Vx SHL 1.
			cpu.V[0xF] = cpu.V[x] >> 7
			cpu.V[x] <<= 1

		default:
			return cpu.unknown(op)
		}
		cpu.next()

	case 0x9000:
		// SNE Vx, Vy :: Skip next instruction if Vx != Vy.
		cpu.skipIf(cpu.V[x] != cpu.V[y])

	case 0xA000:
		// LD I, addr :: Set I = nnn.
		cpu.I = op.nnn()
		cpu.next()

	case 0xB000:
		// JP V0, addr :: Jump to location nnn + V0.
		cpu.Pc = op.nnn() + uint16(cpu.V[0])

	case 0xC000:
		// RND Vx, byte :: Set Vx = random byte AND kk.
		cpu.V[x] = cpu.Random() & kk
		cpu.next()

	case 0xD000:
		// DRW Vx, Vy, nibble :: Display n-byte sprite starting at memory location I at (Vx, Vy), set VF = collision.
		sprite := make([]byte, op.n())
		for i := range sprite {
			sprite[i] = cpu.Memory.Read(cpu.I + uint16(i))
		}
		collision := cpu.Screen.Draw(int(cpu.V[x]), int(cpu.V[y]), sprite)
		cpu.V[0xF] = bool2byte(collision)
		cpu.next()

	case 0xE000:
		// Skip if ...

		switch kk {
		case 0x9E:
			// SKP Vx :: Skip next instruction if key with the value of Vx is pressed.
			cpu.skipIf(cpu.Keys.IsPressed(cpu.V[x]))
		case 0xA1:
			// SKNP Vx :: Skip next instruction if key with the value of Vx is not pressed.
			cpu.skipIf(!cpu.Keys.IsPressed(cpu.V[x]))
		default:
			return cpu.unknown(op)
		}

	case 0xF000:
		// other operations

		switch kk {
		case 0x07:
			// LD Vx, DT :: Set Vx = delay timer value.
			cpu.V[x] = cpu.Dt
		case 0x0A:
			// LD Vx, K :: Wait for a key press, store the value of the key in Vx.
			// Without a key the PC stays here and the instruction runs again next tick.
			k, pressed := cpu.Keys.FirstPressed()
			if !pressed {
				return nil
			}
			cpu.V[x] = k
		case 0x15:
			// LD DT, Vx :: Set delay timer = Vx.
			cpu.Dt = cpu.V[x]
		case 0x18:
			// LD ST, Vx :: Set sound timer = Vx.
			cpu.St = cpu.V[x]
		case 0x1E:
			// ADD I, Vx :: Set I = I + Vx.
			cpu.I += uint16(cpu.V[x])
		case 0x29:
			// LD F, Vx :: Set I = location of sprite for digit Vx.
			cpu.I = FontAddress(cpu.V[x])
		case 0x33:
			// LD B, Vx :: Store BCD representation of Vx in memory locations I, I+1, and I+2.
			// The last digit is computed as (Vx/100)%10, like the interpreter this one mimics.
			vx := cpu.V[x]
			cpu.Memory.Write(cpu.I+0, vx/100)
			cpu.Memory.Write(cpu.I+1, (vx/10)%10)
			cpu.Memory.Write(cpu.I+2, (vx/100)%10)
		case 0x55:
			// LD [I], Vx :: Store registers V0 through Vx in memory starting at location I.
			for i := uint16(0); i <= x; i++ {
				cpu.Memory.Write(cpu.I+i, cpu.V[i])
			}
			cpu.I += x + 1
		case 0x65:
			// LD Vx, [I] :: Read registers V0 through Vx from memory starting at location I.
			for i := uint16(0); i <= x; i++ {
				cpu.V[i] = cpu.Memory.Read(cpu.I + i)
			}
			cpu.I += x + 1
		default:
			return cpu.unknown(op)
		}
		cpu.next()
	}

	return nil
}
