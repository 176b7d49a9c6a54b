// Package elfedit is a small, libelf-flavored ELF access layer: section
// enumeration, data buffer retrieval, dirty-flagging, and
// layout-preserving write-back, for
// ELF64 little-endian files only. It edits the file's pages directly
// through a shared mmap rather than copying the file into a buffer and
// rewriting it, so that an edit can never change the file's size or move
// a byte that wasn't explicitly touched — the same guarantee libelf's
// ELF_C_RDWR_MMAP plus ELF_F_LAYOUT gives the original C tool.
package elfedit

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/xen0n/shengloong/internal/xerrors"
)

// OpenMode mirrors libelf's ELF_C_READ_MMAP vs ELF_C_RDWR_MMAP distinction.
type OpenMode int

const (
	// ReadOnly maps the file PROT_READ only; Commit never writes back,
	// it only unmaps and closes.
	ReadOnly OpenMode = iota
	// ReadWrite maps the file PROT_READ|PROT_WRITE MAP_SHARED, so stores
	// into the mapping are visible to Commit's msync.
	ReadWrite
)

// Data is a section's raw content buffer plus the dirty flag an editor
// must set after mutating it. With a direct mmap backing, the bytes are
// already changed the moment an editor writes through the slice; Dirty
// exists to mirror elf_flagdata's bookkeeping contract and to let the
// driver decide whether a write-back (msync) is owed at all.
type Data struct {
	Buf   []byte
	Dirty bool
}

// Section is one ELF section header plus (lazily) its data descriptor.
type Section struct {
	Index int
	Name  string
	Shdr  Shdr64
	Dirty bool // elf_flagscn-equivalent: section-level dirty, distinct from Data.Dirty

	data *Data
}

// File is an open ELF64-LE file, mapped into memory.
type File struct {
	Path string
	Mode OpenMode

	f       *os.File
	mapping []byte

	Ehdr     Ehdr64
	Sections []*Section

	committed bool
}

// Open opens path per mode, checks the ELF magic, and enumerates the
// section header table of ELF64-LE files (a file of another class or
// encoding opens with no sections). It does not filter by class,
// endianness, or machine type — that's the driver's job — but it does
// reject anything whose ident bytes are too short or whose section table
// can't be read, since those are MalformedELFError, not a skip.
func Open(path string, mode OpenMode) (*File, error) {
	flag := os.O_RDONLY
	prot := unix.PROT_READ
	if mode == ReadWrite {
		flag = os.O_RDWR
		prot |= unix.PROT_WRITE
	}

	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, xerrors.NewCannotOpenError(path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, xerrors.NewCannotOpenError(path, err)
	}
	size := fi.Size()
	if size < EhdrSize {
		f.Close()
		return nil, xerrors.NewMalformedELFError(path, "file shorter than an ELF header (%d bytes)", size)
	}

	mapping, err := unix.Mmap(int(f.Fd()), 0, int(size), prot, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, xerrors.NewIOError(path, err)
	}

	ef := &File{Path: path, Mode: mode, f: f, mapping: mapping}
	if err := ef.parseEhdr(); err != nil {
		ef.abort()
		return nil, err
	}
	if err := ef.parseSections(); err != nil {
		ef.abort()
		return nil, err
	}
	return ef, nil
}

func (ef *File) parseEhdr() error {
	if len(ef.mapping) < EINIdent || string(ef.mapping[:4]) != ELFMagic {
		return xerrors.NewMalformedELFError(ef.Path, "missing ELF magic")
	}
	copy(ef.Ehdr.Ident[:], ef.mapping[:EINIdent])
	r := ef.mapping[EINIdent:EhdrSize]
	ef.Ehdr.Type = binary.LittleEndian.Uint16(r[0:2])
	ef.Ehdr.Machine = binary.LittleEndian.Uint16(r[2:4])
	ef.Ehdr.Version = binary.LittleEndian.Uint32(r[4:8])
	ef.Ehdr.Entry = binary.LittleEndian.Uint64(r[8:16])
	ef.Ehdr.Phoff = binary.LittleEndian.Uint64(r[16:24])
	ef.Ehdr.Shoff = binary.LittleEndian.Uint64(r[24:32])
	ef.Ehdr.Flags = binary.LittleEndian.Uint32(r[32:36])
	ef.Ehdr.Ehsize = binary.LittleEndian.Uint16(r[36:38])
	ef.Ehdr.Phentsize = binary.LittleEndian.Uint16(r[38:40])
	ef.Ehdr.Phnum = binary.LittleEndian.Uint16(r[40:42])
	ef.Ehdr.Shentsize = binary.LittleEndian.Uint16(r[42:44])
	ef.Ehdr.Shnum = binary.LittleEndian.Uint16(r[44:46])
	ef.Ehdr.Shstrndx = binary.LittleEndian.Uint16(r[46:48])
	return nil
}

func (ef *File) parseSections() error {
	if ef.Ehdr.Ident[EIClass] != ELFClass64 || ef.Ehdr.Ident[EIData] != ELFData2LSB {
		// Not our problem to reject here (the driver does the class/
		// endianness/machine filtering and skips such files) but we
		// cannot safely decode a 32-bit or big-endian section table with
		// this code, so leave Sections empty rather than silently
		// misinterpreting bytes.
		return nil
	}

	shoff := ef.Ehdr.Shoff
	shnum := int(ef.Ehdr.Shnum)
	shentsize := int(ef.Ehdr.Shentsize)
	if shnum == 0 || shentsize < ShdrSize {
		return nil
	}

	need := shoff + uint64(shnum*shentsize)
	if need > uint64(len(ef.mapping)) {
		return xerrors.NewMalformedELFError(ef.Path, "section header table runs past end of file")
	}

	shdrs := make([]Shdr64, shnum)
	for i := 0; i < shnum; i++ {
		off := shoff + uint64(i*shentsize)
		shdrs[i] = decodeShdr(ef.mapping[off : off+ShdrSize])
	}

	shstrndx := int(ef.Ehdr.Shstrndx)
	if shstrndx >= shnum {
		return xerrors.NewMalformedELFError(ef.Path, "invalid e_shstrndx %d", shstrndx)
	}
	shstrtab := shdrs[shstrndx]
	if shstrtab.Offset+shstrtab.Size > uint64(len(ef.mapping)) {
		return xerrors.NewMalformedELFError(ef.Path, "section name string table runs past end of file")
	}
	names := ef.mapping[shstrtab.Offset : shstrtab.Offset+shstrtab.Size]

	ef.Sections = make([]*Section, shnum)
	for i, shdr := range shdrs {
		name, err := cStringAt(names, shdr.Name)
		if err != nil {
			return xerrors.NewMalformedELFError(ef.Path, "section %d: %v", i, err)
		}
		ef.Sections[i] = &Section{Index: i, Name: name, Shdr: shdr}
	}
	return nil
}

func decodeShdr(b []byte) Shdr64 {
	return Shdr64{
		Name:      binary.LittleEndian.Uint32(b[0:4]),
		Type:      binary.LittleEndian.Uint32(b[4:8]),
		Flags:     binary.LittleEndian.Uint64(b[8:16]),
		Addr:      binary.LittleEndian.Uint64(b[16:24]),
		Offset:    binary.LittleEndian.Uint64(b[24:32]),
		Size:      binary.LittleEndian.Uint64(b[32:40]),
		Link:      binary.LittleEndian.Uint32(b[40:44]),
		Info:      binary.LittleEndian.Uint32(b[44:48]),
		Addralign: binary.LittleEndian.Uint64(b[48:56]),
		Entsize:   binary.LittleEndian.Uint64(b[56:64]),
	}
}

func cStringAt(buf []byte, off uint32) (string, error) {
	if int(off) > len(buf) {
		return "", fmt.Errorf("string offset %d past end of table (size %d)", off, len(buf))
	}
	end := int(off)
	for end < len(buf) && buf[end] != 0 {
		end++
	}
	if end >= len(buf) {
		return "", fmt.Errorf("unterminated string at offset %d", off)
	}
	return string(buf[off:end]), nil
}

// SectionByName finds the section whose name matches exactly (no prefix
// matching).
func (ef *File) SectionByName(name string) (*Section, bool) {
	for _, s := range ef.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// GetData returns s's content buffer as a slice directly over the mapped
// file pages, creating it on first access (the data descriptor is cached
// per Section for the lifetime of the File, same as libelf's per-scn
// Elf_Data chaining for our purposes — every section of interest here has
// exactly one data chunk).
func (ef *File) GetData(s *Section) (*Data, error) {
	if s.data != nil {
		return s.data, nil
	}
	start, end := s.Shdr.Offset, s.Shdr.Offset+s.Shdr.Size
	if end > uint64(len(ef.mapping)) {
		return nil, xerrors.NewMalformedELFError(ef.Path, "section %q runs past end of file", s.Name)
	}
	s.data = &Data{Buf: ef.mapping[start:end]}
	return s.data, nil
}

// FlagDataDirty marks d dirty (elf_flagdata(d, ELF_C_SET, ELF_F_DIRTY)).
func FlagDataDirty(d *Data) { d.Dirty = true }

// FlagSectionDirty marks s dirty at the section level (elf_flagscn).
func FlagSectionDirty(s *Section) { s.Dirty = true }

// Dirty reports whether any section's data descriptor was marked dirty.
func (ef *File) Dirty() bool {
	for _, s := range ef.Sections {
		if s.data != nil && s.data.Dirty {
			return true
		}
	}
	return false
}

// Commit performs the layout-preserving write-back: if the file was opened
// ReadWrite and something is dirty, msync flushes the mutated mmap pages
// to disk (the edits are already live in the mapping — msync just commits
// them past the page cache). It then unmaps and closes the file. Called
// exactly once, at end-of-file.
func (ef *File) Commit() error {
	if ef.committed {
		return nil
	}
	ef.committed = true

	var commitErr error
	if ef.Mode == ReadWrite && ef.Dirty() {
		if err := unix.Msync(ef.mapping, unix.MS_SYNC); err != nil {
			commitErr = xerrors.NewIOError(ef.Path, fmt.Errorf("write-back failed: %w", err))
		}
	}

	if err := unix.Munmap(ef.mapping); err != nil && commitErr == nil {
		commitErr = xerrors.NewIOError(ef.Path, err)
	}
	if err := ef.f.Close(); err != nil && commitErr == nil {
		commitErr = xerrors.NewIOError(ef.Path, err)
	}
	return commitErr
}

// abort unmaps and closes without attempting a write-back, used on setup
// failures before the caller ever sees a usable *File.
func (ef *File) abort() {
	unix.Munmap(ef.mapping)
	ef.f.Close()
	ef.committed = true
}
