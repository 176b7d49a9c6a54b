// Package loong recognizes the handful of LoongArch instruction idioms
// shengloong needs without a full disassembler: the two-instruction
// lu12i.w+ori immediate-load pair the dynamic linker uses to materialize
// its compiled-in hash constant, and the syscall/$a7-immediate-load
// idiom the ABI scanner back-searches for. Instructions are fixed 32-bit
// little-endian words, recognized and rewritten in place with plain
// shift-and-mask field arithmetic.
package loong

import "encoding/binary"

// Register $a7 / r11 carries the Linux syscall number per the LoongArch
// calling convention.
const RegA7 = 11

// ReadInsn decodes a 32-bit little-endian LoongArch instruction word at
// buf[0:4].
func ReadInsn(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf)
}

// WriteInsn encodes insn into buf[0:4] as little-endian.
func WriteInsn(buf []byte, insn uint32) {
	binary.LittleEndian.PutUint32(buf, insn)
}

// IsLU12IWWithImm reports whether insn is `lu12i.w rd, imm` for the given
// 20-bit immediate, for any destination register. The DSj20 encoding
// packs a 20-bit immediate above a 5-bit destination register; masking
// off the low 5 bits isolates opcode+immediate for comparison.
func IsLU12IWWithImm(insn, imm uint32) bool {
	match := uint32(0x14000000) | ((imm & 0xfffff) << 5)
	return insn&0xffffffe0 == match
}

// DestReg extracts the 5-bit destination register from any instruction
// whose encoding places it in the low 5 bits (true of lu12i.w, ori,
// addi.w, addi.d, and, not coincidentally, most other general-purpose
// arithmetic/logical forms).
func DestReg(insn uint32) int {
	return int(insn & 0x1f)
}

// IsOriExact reports whether insn is exactly `ori rd, rj, imm` (DJUk12
// encoding).
func IsOriExact(insn uint32, rd, rj int, imm uint32) bool {
	match := uint32(0x03800000) | ((imm & 0xfff) << 10) | (uint32(rj) << 5) | uint32(rd)
	return insn == match
}

// IsClobberingRd is the approximate "does this instruction overwrite
// register rd" predicate: it treats any instruction's low 5 bits as a
// destination register, which
// is correct for arithmetic/logical/load forms but wrong for stores,
// branches, and others. A full disassembler would fix this; the original
// tool accepted the approximation, and so does this port — bit-for-bit,
// since the scanner and patcher's behavior on real binaries depends on
// matching it exactly.
func IsClobberingRd(insn uint32, rd int) bool {
	return int(insn&0x1f) == rd
}

// PatchDSJ20Imm rewrites the 20-bit immediate field of a DSj20-encoded
// instruction (lu12i.w and friends), keeping every other bit of oldInsn
// unchanged.
func PatchDSJ20Imm(oldInsn, newImm uint32) uint32 {
	return (oldInsn & 0xfe00001f) | ((newImm & 0xfffff) << 5)
}

// PatchDJUK12Imm rewrites the 12-bit immediate field of a DJUk12-encoded
// instruction (ori and friends), keeping every other bit of oldInsn
// unchanged.
func PatchDJUK12Imm(oldInsn, newImm uint32) uint32 {
	return (oldInsn & 0xffc003ff) | ((newImm & 0xfff) << 10)
}

// IsSyscall reports whether insn is a `syscall` instruction (Ud15
// encoding) by comparing it under the mask 0xffff7000: the low 12 bits of
// the 15-bit immediate and bit 15 are ignored, while immediate bits 12-14
// must be zero.
func IsSyscall(insn uint32) bool {
	return insn&0xffff7000 == 0x002b0000
}

// PullOutSyscallNumber returns the immediate loaded into $a7 if insn is
// one of `addi.w $a7, $zero, imm`, `addi.d $a7, $zero, imm`, or
// `ori $a7, $zero, imm`; otherwise it returns (0, false). DJSk12 and
// DJUk12 share a layout in this case, so the three opcodes can be decoded
// identically once the opcode bits themselves are checked.
func PullOutSyscallNumber(insn uint32) (uint32, bool) {
	const (
		opAddiW = 0x02800000
		opAddiD = 0x02c00000
		opOri   = 0x03800000
	)
	opcode := insn & 0xffc00000
	switch opcode {
	case opAddiW, opAddiD, opOri:
	default:
		return 0, false
	}

	rd := insn & 0x1f
	rj := (insn >> 5) & 0x1f
	if rd != RegA7 || rj != 0 {
		return 0, false
	}
	return (insn >> 10) & 0xfff, true
}
