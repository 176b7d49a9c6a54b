package loong

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPatchRewritesPair(t *testing.T) {
	// lu12i.w $r12, 0x6969 ; ori $r12, $r12, 0x1b5 materializes the BFD
	// hash of "GLIBC_2.35" (0x069691b5) into $r12.
	buf := []byte{
		0x2c, 0x2d, 0x0d, 0x14, // lu12i.w $r12, 0x6969
		0x8c, 0xd5, 0x86, 0x03, // ori $r12, $r12, 0x1b5
		0x00, 0x00, 0x00, 0x00, // padding, unrelated instruction
	}

	fromHash := uint32(0x069691b5)
	toHash := uint32(0x069691b6)

	results := HashPatch(buf, fromHash, toHash, false)
	require.Len(t, results, 1)
	require.True(t, results[0].Found)
	require.Equal(t, 0, results[0].LU12IWOffset)
	require.Equal(t, 4, results[0].OriOffset)

	newLU12IW := ReadInsn(buf[0:4])
	newOri := ReadInsn(buf[4:8])

	require.True(t, IsLU12IWWithImm(newLU12IW, toHash>>12))
	require.True(t, IsOriExact(newOri, 12, 12, toHash&0xfff))
}

func TestHashPatchDryRunLeavesBytesAlone(t *testing.T) {
	buf := []byte{
		0x2c, 0x2d, 0x0d, 0x14,
		0x8c, 0xd5, 0x86, 0x03,
	}
	orig := append([]byte(nil), buf...)

	results := HashPatch(buf, 0x069691b5, 0x069691b6, true)
	require.Len(t, results, 1)
	require.Equal(t, orig, buf)
}

func TestHashPatchResetsOnClobber(t *testing.T) {
	// lu12i.w $r12, 0x6969, followed by an instruction that overwrites
	// $r12 before the matching ori arrives: no pair should be reported.
	buf := []byte{
		0x2c, 0x2d, 0x0d, 0x14, // lu12i.w $r12, 0x6969
		0x0c, 0x00, 0x00, 0x00, // clobbers r12's low 5 bits (rd=12)
		0x8c, 0xd5, 0x86, 0x03, // ori $r12, $r12, 0x1b5 (would have matched)
	}

	results := HashPatch(buf, 0x069691b5, 0x069691b6, true)
	require.Empty(t, results)
}

func TestHashPatchNoMatch(t *testing.T) {
	buf := make([]byte, 16)
	results := HashPatch(buf, 0x069691b5, 0x069691b6, true)
	require.Empty(t, results)
}
