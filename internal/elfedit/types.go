package elfedit

import "encoding/binary"

// Elf64 on-disk structure layouts and the subset of section types, dynamic
// tags, and symbol fields this tool needs to recognize. Modeled on the
// SHT_*/DT_*/STT_* constant tables a from-scratch ELF builder's
// elf_sections.go would carry, extended here to the
// little-endian ELF64 record layouts a mutable in-place editor needs
// (Elf64_Verdef/Elf64_Verneed and friends), which that from-scratch builder
// never needed since it only ever emitted symbol/string tables, not GNU
// version sections.
//
// Apart from the e_flags ABI bits below, only the constants an operation
// or a test fixture actually uses are kept here;
// section lookup in this tool is by name (SectionByName), not by sh_type,
// so the bulk of the SHT_* table has no caller and was deliberately left
// out rather than carried as decoration.
const (
	EIClass     = 4
	EIData      = 5
	EINIdent    = 16
	ELFClass64  = 2
	ELFData2LSB = 1

	ELFMagic = "\x7fELF"

	// EMLoongArch is the e_machine value for LoongArch64 (polyfilled by
	// elfcompat.h in the original C tool, since older <elf.h> headers
	// predate the LoongArch port).
	EMLoongArch = 258

	// SHTStrtab identifies .shstrtab/.dynstr-shaped sections; used by the
	// test fixtures that assemble a section header table by hand.
	SHTStrtab = 3

	// STTObject/STTFunc are the two Elf64_Sym.st_info types this tool
	// distinguishes: STT_OBJECT is the only type that carries a bare
	// version-label name in .dynsym, STT_FUNC never does.
	STTObject = 1
	STTFunc   = 2

	SHNAbs = 0xfff1

	// EFLArchObjABIMask / EFLArchObjABIV1 are the object-file ABI version
	// bits carried in Elf64_Ehdr.e_flags for LoongArch. Nothing in this
	// package reads them; the objabi check (loong.IsObjABIOkay) uses its
	// own constants of the same values.
	EFLArchObjABIMask = 0xc0
	EFLArchObjABIV1   = 0x40
)

// Ehdr64 is the fixed-size ELF64 file header.
type Ehdr64 struct {
	Ident     [EINIdent]byte
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint64
	Phoff     uint64
	Shoff     uint64
	Flags     uint32
	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

// EhdrSize is the on-disk size of Ehdr64 for ELF64.
const EhdrSize = 64

// Shdr64 is the fixed-size ELF64 section header.
type Shdr64 struct {
	Name      uint32
	Type      uint32
	Flags     uint64
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	Addralign uint64
	Entsize   uint64
}

// ShdrSize is the on-disk size of Shdr64.
const ShdrSize = 64

// Sym64 is a fixed-size .dynsym/.symtab record.
type Sym64 struct {
	Name  uint32
	Info  uint8
	Other uint8
	Shndx uint16
	Value uint64
	Size  uint64
}

// SymSize is the on-disk size of Sym64.
const SymSize = 24

// DecodeSym64 decodes one Elf64_Sym record from the front of b.
func DecodeSym64(b []byte) Sym64 {
	return Sym64{
		Name:  binary.LittleEndian.Uint32(b[0:4]),
		Info:  b[4],
		Other: b[5],
		Shndx: binary.LittleEndian.Uint16(b[6:8]),
		Value: binary.LittleEndian.Uint64(b[8:16]),
		Size:  binary.LittleEndian.Uint64(b[16:24]),
	}
}

// Verdef64 is a .gnu.version_d definition record header.
type Verdef64 struct {
	Version uint16
	Flags   uint16
	Ndx     uint16
	Cnt     uint16
	Hash    uint32
	Aux     uint32 // byte offset from this record to the first Verdaux64
	Next    uint32 // byte offset from this record to the next Verdef64, 0 if last
}

// VerdefSize is the on-disk size of Verdef64.
const VerdefSize = 20

// DecodeVerdef64 decodes one Elf64_Verdef record from the front of b.
func DecodeVerdef64(b []byte) Verdef64 {
	return Verdef64{
		Version: binary.LittleEndian.Uint16(b[0:2]),
		Flags:   binary.LittleEndian.Uint16(b[2:4]),
		Ndx:     binary.LittleEndian.Uint16(b[4:6]),
		Cnt:     binary.LittleEndian.Uint16(b[6:8]),
		Hash:    binary.LittleEndian.Uint32(b[8:12]),
		Aux:     binary.LittleEndian.Uint32(b[12:16]),
		Next:    binary.LittleEndian.Uint32(b[16:20]),
	}
}

// PutVerdefHash overwrites the vd_hash field at the front of b.
func PutVerdefHash(b []byte, hash uint32) {
	binary.LittleEndian.PutUint32(b[8:12], hash)
}

// Verdaux64 is a .gnu.version_d auxiliary (name) record.
type Verdaux64 struct {
	Name uint32
	Next uint32 // byte offset to the next Verdaux64 in this definition's chain
}

// VerdauxSize is the on-disk size of Verdaux64.
const VerdauxSize = 8

// DecodeVerdaux64 decodes one Elf64_Verdaux record from the front of b.
func DecodeVerdaux64(b []byte) Verdaux64 {
	return Verdaux64{
		Name: binary.LittleEndian.Uint32(b[0:4]),
		Next: binary.LittleEndian.Uint32(b[4:8]),
	}
}

// Verneed64 is a .gnu.version_r "need" record header.
type Verneed64 struct {
	Version uint16
	Cnt     uint16
	File    uint32 // dynstr offset of the needed shared object's name
	Aux     uint32 // byte offset from this record to the first Vernaux64
	Next    uint32 // byte offset from this record to the next Verneed64, 0 if last
}

// VerneedSize is the on-disk size of Verneed64.
const VerneedSize = 16

// DecodeVerneed64 decodes one Elf64_Verneed record from the front of b.
func DecodeVerneed64(b []byte) Verneed64 {
	return Verneed64{
		Version: binary.LittleEndian.Uint16(b[0:2]),
		Cnt:     binary.LittleEndian.Uint16(b[2:4]),
		File:    binary.LittleEndian.Uint32(b[4:8]),
		Aux:     binary.LittleEndian.Uint32(b[8:12]),
		Next:    binary.LittleEndian.Uint32(b[12:16]),
	}
}

// Vernaux64 is a .gnu.version_r auxiliary (version) record.
type Vernaux64 struct {
	Hash  uint32
	Flags uint16
	Other uint16
	Name  uint32 // dynstr byte offset, NOT a string-table index
	Next  uint32 // byte offset to the next Vernaux64 in this need's chain
}

// VernauxSize is the on-disk size of Vernaux64.
const VernauxSize = 16

// DecodeVernaux64 decodes one Elf64_Vernaux record from the front of b.
func DecodeVernaux64(b []byte) Vernaux64 {
	return Vernaux64{
		Hash:  binary.LittleEndian.Uint32(b[0:4]),
		Flags: binary.LittleEndian.Uint16(b[4:6]),
		Other: binary.LittleEndian.Uint16(b[6:8]),
		Name:  binary.LittleEndian.Uint32(b[8:12]),
		Next:  binary.LittleEndian.Uint32(b[12:16]),
	}
}

// PutVernauxHash overwrites the vna_hash field at the front of b.
func PutVernauxHash(b []byte, hash uint32) {
	binary.LittleEndian.PutUint32(b[0:4], hash)
}

// SymType extracts the STT_* type from an Elf64_Sym.st_info byte.
func SymType(info uint8) uint8 { return info & 0xf }
