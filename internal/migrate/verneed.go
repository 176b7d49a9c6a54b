package migrate

import (
	"github.com/xen0n/shengloong/internal/config"
	"github.com/xen0n/shengloong/internal/elfedit"
)

// ProcessVerneed walks a `.gnu.version_r` outer chain of n needs (from
// sh_info) and, for each, its inner chain of vn_cnt auxiliaries, renaming
// and rehashing every auxiliary whose name is an interesting glibc
// version tag. Unlike Verdef's names, Vernaux names are resolved by raw
// dynstr byte offset rather than through a symbol-table-style index, so
// patches go through dynstr.PatchByOff directly. An auxiliary whose
// vna_hash is rewritten flags both its data descriptor and the section
// itself dirty, mirroring
// the original tool's elf_flagdata+elf_flagscn pair (Verdef only ever
// flagged the data descriptor).
func ProcessVerneed(path string, sect *elfedit.Section, data *elfedit.Data, dynstr *elfedit.Dynstr, cfg *config.Config, n int, log *Logger) error {
	buf := data.Buf
	off := 0

	for i := 0; i < n; i++ {
		vn := readVerneed(buf, off)

		depName, err := dynstr.StringAt(vn.File)
		if err != nil {
			return err
		}
		log.Tracef("%s: verneed %d: depending on %s\n", path, i, depName)

		innerOff := off + int(vn.Aux)
		for j := 0; j < int(vn.Cnt); j++ {
			vna := readVernaux(buf, innerOff)

			auxName, err := dynstr.StringAt(vna.Name)
			if err != nil {
				return err
			}
			log.Tracef("%s: verneed %d: aux %d name %s\n", path, i, j, auxName)

			if !cfg.IsVerInteresting(auxName) {
				innerOff += int(vna.Next)
				continue
			}

			if cfg.DryRun {
				log.Printf("%s: verneed %d: aux %d name %s needs patching\n", path, i, j, auxName)
				innerOff += int(vna.Next)
				continue
			}

			log.Printf("%s: patching verneed %d aux %d %s -> %s\n", path, i, j, auxName, cfg.ToVer)
			if _, err := dynstr.PatchByOff(vna.Name, cfg.ToVer); err != nil {
				return err
			}

			if vna.Hash != cfg.ToHash {
				writeVernauxHash(buf, innerOff, cfg.ToHash)
				elfedit.FlagDataDirty(data)
				elfedit.FlagSectionDirty(sect)
			}

			innerOff += int(vna.Next)
		}

		off += int(vn.Next)
	}

	return nil
}
