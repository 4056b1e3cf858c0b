package errors

import (
	"bytes"
	"errors"
	iofs "io/fs"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_Classifies(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		want  Code
	}{
		{"permission", os.ErrPermission, EPermission},
		{"eacces", &iofs.PathError{Op: "mkdir", Path: "/x", Err: syscall.EACCES}, EPermission},
		{"enospc", &iofs.PathError{Op: "write", Path: "/x", Err: syscall.ENOSPC}, EIO},
		{"other", errors.New("conflito"), EIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FS("mkdir", "/x", tt.cause)
			assert.Equal(t, tt.want, GetCode(err))
			assert.Equal(t, "/x", PathOf(err))
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestError_Format(t *testing.T) {
	assert.Equal(t, "E_USAGE: bad", New(EUsage, "bad").Error())
	assert.Equal(t, "E_IO: touch /a: boom", FS("touch", "/a", errors.New("boom")).Error())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 2, ExitCode(New(EUsage, "x")))
	assert.Equal(t, 1, ExitCode(FS("mkdir", "/x", os.ErrPermission)))
	assert.Equal(t, 1, ExitCode(errors.New("plain")))
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, Wrap(ESpec, "structure", errors.New("duplicate path")))
	assert.Equal(t, "error_code: E_SPEC\nstructure: duplicate path\n", buf.String())

	buf.Reset()
	Print(&buf, errors.New("plain"))
	assert.Equal(t, "plain\n", buf.String())

	buf.Reset()
	Print(&buf, nil)
	require.Empty(t, buf.String())
}
