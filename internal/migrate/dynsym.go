package migrate

import (
	"github.com/xen0n/shengloong/internal/config"
	"github.com/xen0n/shengloong/internal/elfedit"
)

// ProcessDynsym iterates the fixed-size Elf64_Sym records in `.dynsym`,
// bounded by the section's byte size (n below is that size divided by
// the record size, so index i counts records, not bytes). Only
// STT_OBJECT symbols bound SHN_ABS carry a bare version label as their
// name (STT_FUNC names never do), so every other record is skipped
// without inspection.
func ProcessDynsym(path string, data *elfedit.Data, dynstr *elfedit.Dynstr, cfg *config.Config, log *Logger) error {
	const symSize = elfedit.SymSize
	buf := data.Buf
	n := len(buf) / symSize

	for i := 0; i < n; i++ {
		off := i * symSize
		sym := elfedit.DecodeSym64(buf[off : off+symSize])

		if elfedit.SymType(sym.Info) != elfedit.STTObject {
			continue
		}
		if sym.Shndx != elfedit.SHNAbs {
			continue
		}

		verName, err := dynstr.StringAt(sym.Name)
		if err != nil {
			return err
		}
		log.Tracef("%s: announced symbol version %s at idx %d\n", path, verName, i)

		if !cfg.IsVerInteresting(verName) {
			continue
		}

		if cfg.DryRun {
			log.Printf("%s: symbol version %s at idx %d needs patching\n", path, verName, i)
			continue
		}

		log.Printf("%s: patching symbol version %s at idx %d -> %s\n", path, verName, i, cfg.ToVer)
		if _, err := dynstr.PatchByIdx(sym.Name, cfg.ToVer); err != nil {
			return err
		}
	}

	return nil
}
