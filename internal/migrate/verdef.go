package migrate

import (
	"github.com/xen0n/shengloong/internal/config"
	"github.com/xen0n/shengloong/internal/elfedit"
)

// ProcessVerdef walks a `.gnu.version_d` chain of n definitions (n taken
// from the section's sh_info, not from a terminating vd_next of 0 — the
// chain is trusted to be exactly n records long), renaming and rehashing
// every definition whose first auxiliary name is an interesting glibc
// version tag. Only the first Verdaux of each Verdef carries the
// definition's own name; any further aux entries are unrelated
// dependencies and are left untouched.
func ProcessVerdef(path string, data *elfedit.Data, dynstr *elfedit.Dynstr, cfg *config.Config, n int, log *Logger) error {
	buf := data.Buf
	off := 0

	for i := 0; i < n; i++ {
		vd := readVerdef(buf, off)
		aux := readVerdaux(buf, off+int(vd.Aux))

		name, err := dynstr.StringAt(aux.Name)
		if err != nil {
			return err
		}
		log.Tracef("%s: verdef %d: %s\n", path, i, name)

		if !cfg.IsVerInteresting(name) {
			off += int(vd.Next)
			continue
		}

		if cfg.DryRun {
			log.Printf("%s: verdef %d: %s needs patching\n", path, i, name)
			off += int(vd.Next)
			continue
		}

		log.Printf("%s: patching verdef %d -> %s\n", path, i, cfg.ToVer)
		if _, err := dynstr.PatchByIdx(aux.Name, cfg.ToVer); err != nil {
			return err
		}

		if vd.Hash != cfg.ToHash {
			writeVerdefHash(buf, off, cfg.ToHash)
			elfedit.FlagDataDirty(data)
		}

		off += int(vd.Next)
	}

	return nil
}
