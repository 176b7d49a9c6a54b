package loong

// MaxReverseSearchWindow bounds how many preceding instructions the
// syscall-number back-scan will examine.
const MaxReverseSearchWindow = 20

// removedSyscalls is the fixed table of syscall numbers this ABI check
// flags.
var removedSyscalls = map[uint32]string{
	79:  "newfstatat",
	80:  "fstat",
	163: "getrlimit",
	164: "setrlimit",
}

// RemovedSyscallHit is one reported use of a removed syscall.
type RemovedSyscallHit struct {
	TextOffset int
	Name       string
}

// ScanRemovedSyscalls scans buf (a `.text` section's raw bytes) for
// `syscall` instructions and, for each one, back-scans up to
// MaxReverseSearchWindow preceding instructions for an immediate load
// into $a7. A hit is reported only when the loaded number is in the
// fixed removed-syscall table; the back-scan gives up early (without a
// hit) if an intervening instruction clobbers $a7 first.
func ScanRemovedSyscalls(buf []byte) []RemovedSyscallHit {
	var hits []RemovedSyscallHit

	const insnSize = 4
	n := len(buf) / insnSize

	for i := 0; i < n; i++ {
		off := i * insnSize
		insn := ReadInsn(buf[off : off+insnSize])
		if !IsSyscall(insn) {
			continue
		}
		if i == 0 {
			continue
		}

		searchWindow := i - 1
		if searchWindow > MaxReverseSearchWindow {
			searchWindow = MaxReverseSearchWindow
		}

		var (
			syscallNr uint32
			found     bool
		)
		for q := i - 1; searchWindow > 0; q, searchWindow = q-1, searchWindow-1 {
			qoff := q * insnSize
			qinsn := ReadInsn(buf[qoff : qoff+insnSize])

			if nr, ok := PullOutSyscallNumber(qinsn); ok {
				syscallNr, found = nr, true
				break
			}
			if IsClobberingRd(qinsn, RegA7) {
				break
			}
		}

		if !found {
			continue
		}

		name, problematic := removedSyscalls[syscallNr]
		if !problematic {
			continue
		}

		hits = append(hits, RemovedSyscallHit{TextOffset: off, Name: name})
	}

	return hits
}
