package loong

// EFLArchObjABIMask and EFLArchObjABIV1 read the object-file ABI version
// LoongArch toolchains record in Ehdr.Flags. Grounded on
// original_source's src/processing_objabi.c and elfcompat.h.
const (
	EFLArchObjABIMask = 0xc0
	EFLArchObjABIV1   = 0x40
)

// IsObjABIOkay reports whether an object's e_flags record an ABI version
// at or above V1 — the version the target glibc generation assumes.
// Objects built against an older, unversioned ABI (the mask bits read 0)
// need rebuilding rather than in-place patching; shengloong only flags
// them, since there is nothing in the ELF metadata a symbol-version
// rewrite can fix here.
func IsObjABIOkay(eFlags uint32) bool {
	return eFlags&EFLArchObjABIMask >= EFLArchObjABIV1
}
