package elfedit

import (
	"github.com/xen0n/shengloong/internal/xerrors"
)

// Dynstr is the string-table editor for one file's .dynstr section: an
// idempotent, fixed-length overwrite of NUL-terminated entries. It never
// changes any string's length — PatchByOff fails with a DataError if the
// caller tries to.
type Dynstr struct {
	Path string
	Data *Data
}

// NewDynstr wraps d as the .dynstr editor for path (used in error
// messages).
func NewDynstr(path string, d *Data) *Dynstr {
	return &Dynstr{Path: path, Data: d}
}

// stringAt reads the NUL-terminated string starting at byte offset off.
func (e *Dynstr) stringAt(off uint32) (string, int, error) {
	buf := e.Data.Buf
	if int(off) > len(buf) {
		return "", 0, xerrors.NewMalformedELFError(e.Path, ".dynstr offset %d past end of section", off)
	}
	end := int(off)
	for end < len(buf) && buf[end] != 0 {
		end++
	}
	if end >= len(buf) {
		return "", 0, xerrors.NewMalformedELFError(e.Path, ".dynstr entry at offset %d is not NUL-terminated", off)
	}
	return string(buf[off:end]), end - int(off), nil
}

// PatchByOff overwrites the NUL-terminated string at byte offset off with
// newVal. It fails with a DataError when the lengths differ; when the
// existing value already equals newVal it returns success with no side
// effect (idempotence: a second run changes nothing and leaves dirty
// unset).
func (e *Dynstr) PatchByOff(off uint32, newVal string) (changed bool, err error) {
	old, oldLen, err := e.stringAt(off)
	if err != nil {
		return false, err
	}
	if oldLen != len(newVal) {
		return false, xerrors.NewDataErrorf(e.Path,
			"cannot patch string with unequal lengths: attempted %q -> %q", old, newVal)
	}
	if old == newVal {
		return false, nil
	}

	copy(e.Data.Buf[off:int(off)+len(newVal)], newVal)
	FlagDataDirty(e.Data)
	return true, nil
}

// PatchByIdx resolves idx (an Elf64_Sym.st_name / Elf64_Verdaux.vda_name
// style "logical index", equivalent to a byte offset for this section)
// through the string table and delegates to PatchByOff. The distinction
// between "idx" and "off" exists at the caller level (Verdef/dynsym
// names use an elf_strptr-style lookup, Verneed/Vernaux use raw offsets
// directly) even though, for .dynstr, both resolve to the same byte
// offset.
func (e *Dynstr) PatchByIdx(idx uint32, newVal string) (bool, error) {
	return e.PatchByOff(idx, newVal)
}

// StringAt is the read-only counterpart used by the version/symbol
// walkers to decide whether a name is "interesting" before editing it.
func (e *Dynstr) StringAt(off uint32) (string, error) {
	s, _, err := e.stringAt(off)
	return s, err
}
