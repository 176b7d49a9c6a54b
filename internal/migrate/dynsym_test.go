package migrate

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xen0n/shengloong/internal/config"
	"github.com/xen0n/shengloong/internal/elfedit"
)

func appendSym(buf []byte, nameOff uint32, info uint8, shndx uint16) []byte {
	rec := make([]byte, elfedit.SymSize)
	binary.LittleEndian.PutUint32(rec[0:4], nameOff)
	rec[4] = info
	rec[5] = 0
	binary.LittleEndian.PutUint16(rec[6:8], shndx)
	return append(buf, rec...)
}

func TestProcessDynsymPatchesVersionLabelSymbols(t *testing.T) {
	dynstrBuf, offs := buildDynstr("GLIBC_2.35", "some_func")
	dynstrData := &elfedit.Data{Buf: dynstrBuf}
	dynstr := elfedit.NewDynstr("test.so", dynstrData)

	var symBuf []byte
	symBuf = appendSym(symBuf, 0, 0, 0) // mandatory null symbol
	symBuf = appendSym(symBuf, offs[0], elfedit.STTObject, elfedit.SHNAbs)
	symBuf = appendSym(symBuf, offs[1], elfedit.STTFunc, 1) // ordinary function, must be skipped
	data := &elfedit.Data{Buf: symBuf}

	cfg, err := config.New("GLIBC_2.35", "GLIBC_2.36", false, false, false, false)
	require.NoError(t, err)
	log := NewLogger(io.Discard, false)

	err = ProcessDynsym("test.so", data, dynstr, cfg, log)
	require.NoError(t, err)

	require.True(t, dynstrData.Dirty)
	name, err := dynstr.StringAt(offs[0])
	require.NoError(t, err)
	require.Equal(t, "GLIBC_2.36", name)

	funcName, err := dynstr.StringAt(offs[1])
	require.NoError(t, err)
	require.Equal(t, "some_func", funcName)
}

func TestProcessDynsymIgnoresNonAbsObjects(t *testing.T) {
	dynstrBuf, offs := buildDynstr("GLIBC_2.35")
	dynstrData := &elfedit.Data{Buf: dynstrBuf}
	dynstr := elfedit.NewDynstr("test.so", dynstrData)

	var symBuf []byte
	symBuf = appendSym(symBuf, offs[0], elfedit.STTObject, 1) // not SHN_ABS
	data := &elfedit.Data{Buf: symBuf}

	cfg, err := config.New("GLIBC_2.35", "GLIBC_2.36", false, false, false, false)
	require.NoError(t, err)
	log := NewLogger(io.Discard, false)

	err = ProcessDynsym("test.so", data, dynstr, cfg, log)
	require.NoError(t, err)
	require.False(t, dynstrData.Dirty)
}
