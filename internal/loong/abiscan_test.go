package loong

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanRemovedSyscallsFindsFstat(t *testing.T) {
	// filler ; ori $a7, $zero, 80 ; syscall 0 — 80 is the removed fstat
	// number. The back-scan's window never reaches instruction 0 of a
	// .text blob (a quirk of the original MIN(count-1, window) formula,
	// preserved bit-for-bit here), so the load must sit at index >= 1.
	buf := []byte{
		0x00, 0x00, 0x00, 0x00, // filler
		0x0b, 0x40, 0x81, 0x03, // ori $a7, $zero, 80
		0x00, 0x00, 0x2b, 0x00, // syscall 0
	}

	hits := ScanRemovedSyscalls(buf)
	require.Len(t, hits, 1)
	require.Equal(t, "fstat", hits[0].Name)
	require.Equal(t, 8, hits[0].TextOffset)
}

func TestScanRemovedSyscallsIgnoresLiveSyscalls(t *testing.T) {
	// ori $a7, $zero, 93 (exit) ; syscall 0 — 93 is not in the removed table.
	liveNr := uint32(93)
	insn := uint32(0x03800000) | ((liveNr & 0xfff) << 10) | 11
	buf := make([]byte, 12)
	WriteInsn(buf[4:8], insn)
	WriteInsn(buf[8:12], 0x002b0000)

	hits := ScanRemovedSyscalls(buf)
	require.Empty(t, hits)
}

func TestScanRemovedSyscallsStopsAtClobber(t *testing.T) {
	// An $a7 load followed by an instruction that clobbers $a7, followed
	// by the syscall: the nearer clobber must win the back-scan before it
	// ever reaches the earlier load.
	loadA7 := uint32(0x03800000) | ((80 & 0xfff) << 10) | 11
	clobberA7 := uint32(0x0000000b) // low 5 bits == 11 ($a7)

	buf := make([]byte, 16)
	WriteInsn(buf[4:8], loadA7)
	WriteInsn(buf[8:12], clobberA7)
	WriteInsn(buf[12:16], 0x002b0000)

	hits := ScanRemovedSyscalls(buf)
	require.Empty(t, hits)
}

func TestScanRemovedSyscallsRespectsWindow(t *testing.T) {
	// Load $a7 with a removed syscall number, then pad with enough
	// unrelated instructions that the syscall falls outside the
	// MaxReverseSearchWindow-instruction back-scan.
	loadA7 := uint32(0x03800000) | ((80 & 0xfff) << 10) | 11

	syscallIdx := 25
	buf := make([]byte, (syscallIdx+1)*4)
	WriteInsn(buf[4*4:4*4+4], loadA7) // index 4, outside the 20-deep window for index 25
	WriteInsn(buf[syscallIdx*4:syscallIdx*4+4], 0x002b0000)

	hits := ScanRemovedSyscalls(buf)
	require.Empty(t, hits)
}

func TestScanRemovedSyscallsSkipsLeadingSyscall(t *testing.T) {
	buf := make([]byte, 4)
	WriteInsn(buf[0:4], 0x002b0000)

	hits := ScanRemovedSyscalls(buf)
	require.Empty(t, hits)
}
