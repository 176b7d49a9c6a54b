package elfedit

import (
	"encoding/binary"
	"os"
	"testing"
)

// buildMinimalELF writes a tiny, valid ELF64-LE file with only a NULL
// section, a .shstrtab, and a .dynstr section containing dynstrContent.
// It returns the path to the file (in t.TempDir, cleaned up automatically).
func buildMinimalELF(t *testing.T, dynstrContent []byte) string {
	t.Helper()

	const (
		shstrtab = "\x00.shstrtab\x00.dynstr\x00"
	)

	shstrtabOff := uint64(EhdrSize)
	dynstrOff := shstrtabOff + uint64(len(shstrtab))
	// pad dynstr to an 8-byte boundary for realism; not required for
	// correctness.
	for dynstrOff%8 != 0 {
		dynstrOff++
	}
	shoff := dynstrOff + uint64(len(dynstrContent))
	for shoff%8 != 0 {
		shoff++
	}

	buf := make([]byte, shoff+3*ShdrSize)

	// e_ident
	copy(buf[0:4], ELFMagic)
	buf[EIClass] = ELFClass64
	buf[EIData] = ELFData2LSB
	buf[6] = 1 // EI_VERSION

	le := binary.LittleEndian
	le.PutUint16(buf[16:18], 3)                 // e_type = ET_DYN
	le.PutUint16(buf[18:20], EMLoongArch)        // e_machine
	le.PutUint32(buf[20:24], 1)                  // e_version
	le.PutUint64(buf[40:48], shoff)              // e_shoff
	le.PutUint16(buf[52:54], EhdrSize)           // e_ehsize (not load-bearing here)
	le.PutUint16(buf[58:60], ShdrSize)           // e_shentsize
	le.PutUint16(buf[60:62], 3)                  // e_shnum
	le.PutUint16(buf[62:64], 1)                  // e_shstrndx

	copy(buf[shstrtabOff:], shstrtab)
	copy(buf[dynstrOff:], dynstrContent)

	writeShdr := func(i int, sh Shdr64) {
		off := shoff + uint64(i)*ShdrSize
		b := buf[off : off+ShdrSize]
		le.PutUint32(b[0:4], sh.Name)
		le.PutUint32(b[4:8], sh.Type)
		le.PutUint64(b[8:16], sh.Flags)
		le.PutUint64(b[16:24], sh.Addr)
		le.PutUint64(b[24:32], sh.Offset)
		le.PutUint64(b[32:40], sh.Size)
		le.PutUint32(b[40:44], sh.Link)
		le.PutUint32(b[44:48], sh.Info)
		le.PutUint64(b[48:56], sh.Addralign)
		le.PutUint64(b[56:64], sh.Entsize)
	}

	writeShdr(0, Shdr64{})
	writeShdr(1, Shdr64{Name: 1, Type: SHTStrtab, Offset: shstrtabOff, Size: uint64(len(shstrtab))})
	writeShdr(2, Shdr64{Name: 11, Type: SHTStrtab, Offset: dynstrOff, Size: uint64(len(dynstrContent))})

	path := t.TempDir() + "/test.so"
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}
