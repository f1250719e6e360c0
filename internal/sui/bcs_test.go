package sui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULEB128(t *testing.T) {
	cases := map[uint64][]byte{
		0:     {0x00},
		1:     {0x01},
		127:   {0x7f},
		128:   {0x80, 0x01},
		300:   {0xac, 0x02},
		16384: {0x80, 0x80, 0x01},
	}
	for v, want := range cases {
		var w bcsWriter
		w.uleb128(v)
		assert.Equal(t, want, w.Bytes(), "uleb128(%d)", v)
	}
}

func TestEncodeU64(t *testing.T) {
	assert.Equal(t, []byte{0x0a, 0, 0, 0, 0, 0, 0, 0}, EncodeU64(10))
}

func TestKindBytes_SharedObjectAndAddress(t *testing.T) {
	objID := Address{31: 0x01}
	investor := Address{31: 0x02}
	pkg := Address{0: 0xaa, 31: 0xbb}

	tx := ProgrammableTransaction{
		Inputs: []CallArg{
			{Object: &ObjectArg{ID: objID, Shared: true, InitialSharedVersion: 3}},
			PureAddress(investor),
		},
		Commands: []MoveCall{{Package: pkg, Module: "m", Function: "f", Inputs: []uint16{0, 1}}},
	}

	got, err := tx.KindBytes()
	require.NoError(t, err)

	var want bytes.Buffer
	want.WriteByte(0x00) // ProgrammableTransaction
	want.WriteByte(0x02) // two inputs
	want.Write([]byte{0x01, 0x01})
	want.Write(objID[:])
	want.Write([]byte{3, 0, 0, 0, 0, 0, 0, 0})
	want.WriteByte(0x00) // immutable
	want.Write([]byte{0x00, 0x20})
	want.Write(investor[:])
	want.WriteByte(0x01) // one command
	want.WriteByte(0x00) // MoveCall
	want.Write(pkg[:])
	want.Write([]byte{0x01, 'm', 0x01, 'f'})
	want.WriteByte(0x00) // type arguments
	want.Write([]byte{0x02, 0x01, 0x00, 0x00, 0x01, 0x01, 0x00})

	assert.Equal(t, want.Bytes(), got)
}

func TestKindBytes_OwnedObject(t *testing.T) {
	digest := bytes.Repeat([]byte{0x07}, 32)
	tx := ProgrammableTransaction{
		Inputs:   []CallArg{{Object: &ObjectArg{ID: Address{31: 9}, Version: 5, Digest: digest}}},
		Commands: []MoveCall{{Module: "m", Function: "f", Inputs: []uint16{0}}},
	}

	got, err := tx.KindBytes()
	require.NoError(t, err)

	// kind, input count, CallArg::Object, ObjectArg::ImmOrOwned, id, version, digest len
	prefix := append([]byte{0x00, 0x01, 0x01, 0x00}, Address{31: 9}.Bytes()...)
	assert.True(t, bytes.HasPrefix(got, prefix))
	assert.True(t, bytes.Contains(got, append([]byte{5, 0, 0, 0, 0, 0, 0, 0, 0x20}, digest...)))
}

func TestKindBytes_Errors(t *testing.T) {
	_, err := ProgrammableTransaction{
		Commands: []MoveCall{{Module: "m", Function: "f", Inputs: []uint16{0}}},
	}.KindBytes()
	assert.Error(t, err, "input index out of range")

	_, err = ProgrammableTransaction{
		Inputs:   []CallArg{{Object: &ObjectArg{Digest: []byte{1}}}},
		Commands: []MoveCall{{Module: "m", Function: "f"}},
	}.KindBytes()
	assert.Error(t, err, "short digest")

	_, err = ProgrammableTransaction{Commands: []MoveCall{{Function: "f"}}}.KindBytes()
	assert.Error(t, err, "missing module")
}
