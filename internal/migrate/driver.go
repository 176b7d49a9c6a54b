// Package migrate implements the per-file ELF driver: open, filter,
// enumerate sections, and dispatch to the version-record, symbol-table,
// and dynamic-linker rewriters in the right order, then write back.
package migrate

import (
	"path/filepath"

	"github.com/xen0n/shengloong/internal/config"
	"github.com/xen0n/shengloong/internal/elfedit"
	"github.com/xen0n/shengloong/internal/loong"
	"github.com/xen0n/shengloong/internal/report"
)

// ldsoBasename is the dynamic linker's well-known filename; only it gets
// the .rodata/.text patches, since every other binary merely references
// glibc's exported symbol versions rather than embedding them.
const ldsoBasename = "ld-linux-loongarch-lp64d.so.1"

const (
	sectionDynstr     = ".dynstr"
	sectionDynsym     = ".dynsym"
	sectionGNUVerdef  = ".gnu.version_d"
	sectionGNUVerneed = ".gnu.version_r"
	sectionRodata     = ".rodata"
	sectionText       = ".text"
)

// Driver holds the collaborators shared across every file a run visits.
type Driver struct {
	Cfg     *config.Config
	Summary *report.Summary
	Log     *Logger
}

// NewDriver builds a Driver.
func NewDriver(cfg *config.Config, summary *report.Summary, log *Logger) *Driver {
	return &Driver{Cfg: cfg, Summary: summary, Log: log}
}

// ProcessFile is an internal/walk.VisitFunc: it opens path, filters out
// anything that isn't a 64-bit little-endian LoongArch ELF, and dispatches
// to the migration or audit steps the run's Config selects.
func (drv *Driver) ProcessFile(path string) (err error) {
	mode := elfedit.ReadWrite
	if drv.Cfg.DryRun {
		mode = elfedit.ReadOnly
	}

	ef, err := elfedit.Open(path, mode)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ef.Commit(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if ef.Ehdr.Ident[elfedit.EIClass] != elfedit.ELFClass64 {
		return nil
	}
	if ef.Ehdr.Ident[elfedit.EIData] != elfedit.ELFData2LSB {
		return nil
	}
	if ef.Ehdr.Machine != elfedit.EMLoongArch {
		return nil
	}

	if drv.Cfg.CheckSyscallABI {
		return drv.checkSyscallABI(ef, path)
	}
	if drv.Cfg.CheckObjABI {
		drv.checkObjABI(ef, path)
		return nil
	}

	return drv.migrateFile(ef, path)
}

func (drv *Driver) checkSyscallABI(ef *elfedit.File, path string) error {
	text, ok := ef.SectionByName(sectionText)
	if !ok {
		return nil
	}
	data, err := ef.GetData(text)
	if err != nil {
		return err
	}

	for _, hit := range loong.ScanRemovedSyscalls(data.Buf) {
		drv.Summary.ReportRemovedSyscall(path, hit.Name, uint64(hit.TextOffset))
	}
	return nil
}

func (drv *Driver) checkObjABI(ef *elfedit.File, path string) {
	if loong.IsObjABIOkay(ef.Ehdr.Flags) {
		return
	}
	drv.Summary.ReportObsoleteObjABI(path, ef.Ehdr.Flags)
}

func (drv *Driver) migrateFile(ef *elfedit.File, path string) error {
	isLdso := filepath.Base(path) == ldsoBasename

	dynstrSect, hasDynstr := ef.SectionByName(sectionDynstr)
	var dynstr *elfedit.Dynstr
	if hasDynstr {
		data, err := ef.GetData(dynstrSect)
		if err != nil {
			return err
		}
		dynstr = elfedit.NewDynstr(path, data)
	}

	if hasDynstr {
		if s, ok := ef.SectionByName(sectionGNUVerdef); ok {
			data, err := ef.GetData(s)
			if err != nil {
				return err
			}
			n := int(s.Shdr.Info)
			if err := ProcessVerdef(path, data, dynstr, drv.Cfg, n, drv.Log); err != nil {
				return err
			}
		}

		if s, ok := ef.SectionByName(sectionGNUVerneed); ok {
			data, err := ef.GetData(s)
			if err != nil {
				return err
			}
			n := int(s.Shdr.Info)
			if err := ProcessVerneed(path, s, data, dynstr, drv.Cfg, n, drv.Log); err != nil {
				return err
			}
		}

		if s, ok := ef.SectionByName(sectionDynsym); ok {
			data, err := ef.GetData(s)
			if err != nil {
				return err
			}
			if err := ProcessDynsym(path, data, dynstr, drv.Cfg, drv.Log); err != nil {
				return err
			}
		}
	}

	if isLdso {
		if s, ok := ef.SectionByName(sectionRodata); ok {
			data, err := ef.GetData(s)
			if err != nil {
				return err
			}
			if err := PatchLdsoRodata(path, data, drv.Cfg, drv.Log); err != nil {
				return err
			}
		}

		if s, ok := ef.SectionByName(sectionText); ok {
			data, err := ef.GetData(s)
			if err != nil {
				return err
			}
			if err := PatchLdsoTextHashes(path, data, drv.Cfg, drv.Log); err != nil {
				return err
			}
		}
	}

	return nil
}
