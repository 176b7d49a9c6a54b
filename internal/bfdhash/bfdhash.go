// Package bfdhash computes the classic BFD/ELF symbol-version hash used by
// .gnu.version_d and .gnu.version_r to speed up name lookups.
package bfdhash

// Sum returns the BFD/ELF hash of name, as defined by the original SYSV ELF
// ABI (and used verbatim by bfd_elf_hash in binutils).
func Sum(name string) uint32 {
	var h uint32
	for i := 0; i < len(name); i++ {
		h = (h << 4) + uint32(name[i])
		if g := h & 0xf0000000; g != 0 {
			h ^= g >> 24
			h ^= g
		}
	}
	return h
}
