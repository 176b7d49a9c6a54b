package loong

// HashPatchResult reports what HashPatch found/did, for logging and
// dry-run messaging.
type HashPatchResult struct {
	Found        bool
	LU12IWOffset int
	OriOffset    int
}

// HashPatch scans buf (a `.text` section's raw bytes) for the
// lu12i.w+ori pair that materializes fromHash as a 32-bit immediate, and
// rewrites both instructions in place to materialize toHash instead. It
// is a two-state matcher: state A searches for a matching lu12i.w; state
// B awaits the following ori that
// completes the pair, resetting to state A either on a match (after
// patching) or when an intervening instruction clobbers the remembered
// destination register.
//
// Scanning continues after a match is found and patched (multiple pairs
// are possible across a large .text, though in practice the dynamic
// linker has exactly one). dryRun suppresses the actual bit rewrite but
// still reports what would have been patched.
func HashPatch(buf []byte, fromHash, toHash uint32, dryRun bool) []HashPatchResult {
	fromHi20 := fromHash >> 12
	fromLo12 := fromHash & 0xfff

	toHi20 := toHash >> 12
	toLo12 := toHash & 0xfff

	var results []HashPatchResult

	const insnSize = 4
	n := len(buf) / insnSize

	searching := true
	var hi20Offset int
	var reg int

	for i := 0; i < n; i++ {
		off := i * insnSize
		insn := ReadInsn(buf[off : off+insnSize])

		if searching {
			if IsLU12IWWithImm(insn, fromHi20) {
				hi20Offset = off
				reg = DestReg(insn)
				searching = false
			}
			continue
		}

		if IsOriExact(insn, reg, reg, fromLo12) {
			results = append(results, HashPatchResult{Found: true, LU12IWOffset: hi20Offset, OriOffset: off})

			if !dryRun {
				oldLU12IW := ReadInsn(buf[hi20Offset : hi20Offset+insnSize])
				newLU12IW := PatchDSJ20Imm(oldLU12IW, toHi20)
				WriteInsn(buf[hi20Offset:hi20Offset+insnSize], newLU12IW)

				newOri := PatchDJUK12Imm(insn, toLo12)
				WriteInsn(buf[off:off+insnSize], newOri)
			}

			searching = true
			continue
		}

		if IsClobberingRd(insn, reg) {
			searching = true
		}
	}

	return results
}
