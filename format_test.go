// Copyright (c) 2026 clonklabs
// SPDX-License-Identifier: MIT

package c4group

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeFromUint32(t *testing.T) {
	assert.Equal(t, time.Unix(1234, 0), timeFromUint32(1234))
	assert.True(t, timeFromUint32(0).IsZero())

	// Values past the signed 32-bit range come from an incompatible
	// format variant and must not fail the load.
	assert.True(t, timeFromUint32(math.MaxUint32).IsZero())
	assert.True(t, timeFromUint32(math.MaxInt32+1).IsZero())
}

func TestTimeToUint32Clamps(t *testing.T) {
	assert.Equal(t, uint32(0), timeToUint32(time.Time{}))
	assert.Equal(t, uint32(0), timeToUint32(time.Unix(-5, 0)))
	assert.Equal(t, uint32(1234), timeToUint32(time.Unix(1234, 0)))
	assert.Equal(t, uint32(math.MaxInt32), timeToUint32(time.Unix(math.MaxInt32+10, 0)))
}

func TestPackEntryCoreRejectsNUL(t *testing.T) {
	e := &Entry{Name: "bad\x00name"}
	e.SetContent([]byte("x"))
	_, err := packEntryCore(e)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestPackEntryCoreRejectsEmptyName(t *testing.T) {
	e := &Entry{}
	e.SetContent([]byte("x"))
	_, err := packEntryCore(e)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestHeaderAuthorTruncated(t *testing.T) {
	d := &Directory{Author: "ThisAuthorNameIsFarLongerThanTheThirtyTwoByteField"}
	header := packHeader(d)

	parsed := &Directory{}
	_, err := parseHeader(header, parsed)
	require.NoError(t, err)
	assert.Equal(t, d.Author[:authorFieldLen], parsed.Author)
}

func TestEntryCoreRoundTrip(t *testing.T) {
	e := &Entry{
		Name:         "Material.ocm",
		Size:         777,
		ModTime:      time.Unix(999999, 0),
		Executable:   true,
		HasCRC:       true,
		CRC:          0xCAFEBABE,
		OffsetToFile: 4242,
	}

	rec, err := packEntryCore(e)
	require.NoError(t, err)
	require.Len(t, rec, entryCoreSize)

	core := parseEntryCore(rec)
	assert.Equal(t, []byte("Material.ocm"), core.rawName)
	assert.False(t, core.isDir)
	assert.Equal(t, uint32(777), core.size)
	assert.Equal(t, uint32(4242), core.offset)
	assert.Equal(t, time.Unix(999999, 0), core.modTime)
	assert.True(t, core.executable)
	assert.True(t, core.hasCRC)
	assert.Equal(t, uint32(0xCAFEBABE), core.crc)
}

func TestEntryCoreCRCDoesNotOverlapExecutable(t *testing.T) {
	// The two historical codec versions disagreed on these offsets; the
	// canonical layout keeps the CRC word clear of the executable byte.
	e := &Entry{Name: "x", HasCRC: true, CRC: 0xFFFFFFFF}
	rec, err := packEntryCore(e)
	require.NoError(t, err)
	assert.Equal(t, byte(0), rec[entOffExecutable])

	e = &Entry{Name: "x", Executable: true}
	rec, err = packEntryCore(e)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), uint32(rec[entOffCRC])|uint32(rec[entOffCRC+1])<<8|
		uint32(rec[entOffCRC+2])<<16|uint32(rec[entOffCRC+3])<<24)
}
