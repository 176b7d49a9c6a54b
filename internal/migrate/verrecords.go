package migrate

import "github.com/xen0n/shengloong/internal/elfedit"

// readVerdef decodes the Elf64_Verdef at byte offset off in buf.
func readVerdef(buf []byte, off int) elfedit.Verdef64 {
	return elfedit.DecodeVerdef64(buf[off:])
}

func writeVerdefHash(buf []byte, off int, hash uint32) {
	elfedit.PutVerdefHash(buf[off:], hash)
}

// readVerdaux decodes the Elf64_Verdaux at byte offset off in buf.
func readVerdaux(buf []byte, off int) elfedit.Verdaux64 {
	return elfedit.DecodeVerdaux64(buf[off:])
}

// readVerneed decodes the Elf64_Verneed at byte offset off in buf.
func readVerneed(buf []byte, off int) elfedit.Verneed64 {
	return elfedit.DecodeVerneed64(buf[off:])
}

// readVernaux decodes the Elf64_Vernaux at byte offset off in buf.
func readVernaux(buf []byte, off int) elfedit.Vernaux64 {
	return elfedit.DecodeVernaux64(buf[off:])
}

func writeVernauxHash(buf []byte, off int, hash uint32) {
	elfedit.PutVernauxHash(buf[off:], hash)
}
