package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseName(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    string
		wantErr error
	}{
		"plain":          {in: "report.pdf", want: "report.pdf"},
		"hidden":         {in: ".env", want: ".env"},
		"double dots":    {in: "a..b.txt", want: "a..b.txt"},
		"nested":         {in: "x/y/z.txt", want: "z.txt"},
		"windows nested": {in: `x\y\z.txt`, want: "z.txt"},
		"spaces":         {in: "my file.txt", want: "my file.txt"},
		"empty":          {in: "", wantErr: errEmptyName},
		"parent":         {in: "../a.txt", wantErr: errTraversal},
		"deep parent":    {in: "a/b/../../../c", wantErr: errTraversal},
		"absolute":       {in: "/tmp/a.txt", wantErr: errAbsolute},
		"drive":          {in: `D:\a.txt`, wantErr: errAbsolute},
		"trailing slash": {in: "dir/", wantErr: errNoBaseName},
		"blank":          {in: "   ", wantErr: errNoBaseName},
		"nul":            {in: "a\x00.txt", wantErr: errBadChars},
		"reserved":       {in: "d/.upload-abc.tmp", wantErr: errReserved},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := baseName(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChildOf(t *testing.T) {
	assert.True(t, childOf("/data", "/data/a.txt"))
	assert.False(t, childOf("/data", "/data/sub/a.txt"))
	assert.False(t, childOf("/data", "/etc/passwd"))
	assert.False(t, childOf("/data", "/data"))
}
