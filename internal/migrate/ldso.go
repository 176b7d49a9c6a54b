package migrate

import (
	"bytes"

	"github.com/xen0n/shengloong/internal/config"
	"github.com/xen0n/shengloong/internal/elfedit"
	"github.com/xen0n/shengloong/internal/loong"
)

// ldsoVersionTagPattern is the NUL-prefixed prefix shared by every
// hard-coded "GLIBC_2.3x" string the dynamic linker embeds in `.rodata`;
// matching it (rather than the bare tag) avoids false positives on
// substrings of longer, unrelated strings.
var ldsoVersionTagPattern = []byte("\x00GLIBC_2.3")

// PatchLdsoRodata finds every hard-coded "GLIBC_2.3x" version string the
// dynamic linker embeds in `.rodata` and rewrites each to cfg.ToVer.
// A match is a 10-byte NUL-terminated tag following the pattern; a tag
// that doesn't terminate after exactly 10 bytes, or that already equals
// cfg.ToVer, is left untouched (idempotence).
func PatchLdsoRodata(path string, data *elfedit.Data, cfg *config.Config, log *Logger) error {
	buf := data.Buf
	searchFrom := 0

	for {
		idx := bytes.Index(buf[searchFrom:], ldsoVersionTagPattern)
		if idx < 0 {
			break
		}
		matchOff := searchFrom + idx
		tagOff := matchOff + 1

		tagEnd := tagOff
		for tagEnd < len(buf) && buf[tagEnd] != 0 {
			tagEnd++
		}
		tagLen := tagEnd - tagOff

		searchFrom = tagOff + 10
		if searchFrom > len(buf) {
			searchFrom = len(buf)
		}

		if tagLen != 10 {
			continue
		}
		tag := string(buf[tagOff:tagEnd])

		if tag == cfg.ToVer {
			continue
		}

		if cfg.DryRun {
			log.Printf("%s: hard-coded symbol version in .rodata: %s (offset %d) needs patching\n", path, tag, tagOff)
			continue
		}

		log.Printf("%s: patching hard-coded symbol version in .rodata: %s (offset %d) -> %s\n", path, tag, tagOff, cfg.ToVer)
		copy(buf[tagOff:tagOff+10], cfg.ToVer)
		elfedit.FlagDataDirty(data)
	}

	return nil
}

// PatchLdsoTextHashes finds and rewrites the lu12i.w+ori pair in `.text`
// that materializes the dynamic linker's compiled-in from-version hash,
// delegating the instruction-level work to internal/loong.HashPatch.
func PatchLdsoTextHashes(path string, data *elfedit.Data, cfg *config.Config, log *Logger) error {
	results := loong.HashPatch(data.Buf, cfg.FromHash, cfg.ToHash, cfg.DryRun)
	for _, r := range results {
		if cfg.DryRun {
			log.Printf("%s: old hash in .text needs patching: lu12i.w offset %d, ori offset %d\n",
				path, r.LU12IWOffset, r.OriOffset)
			continue
		}
		log.Printf("%s: patched old hash in .text: lu12i.w offset %d, ori offset %d\n",
			path, r.LU12IWOffset, r.OriOffset)
		elfedit.FlagDataDirty(data)
	}

	return nil
}
