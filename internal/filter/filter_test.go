package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Blocked(t *testing.T) {
	f := New()
	require.NoError(t, f.Add("192.168.0.0"))
	require.NoError(t, f.Add("10.1.2.3"))

	tests := []struct {
		name string
		ip   string
		ban  bool
		want bool
	}{
		{"banned subnet", "192.168.5.7", true, true},
		{"banned exact", "10.1.2.3:4455", true, true},
		{"not listed passes", "10.1.2.4", true, false},
		{"whitelist listed passes", "192.168.1.1", false, false},
		{"whitelist other rejected", "8.8.8.8", false, true},
		{"garbage in ban mode", "not-an-ip", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Blocked(tt.ip, tt.ban))
		})
	}
}

func TestFilter_AddRemove(t *testing.T) {
	f := New()
	assert.ErrorIs(t, f.Add("300.1.1.1"), ErrBadMask)
	assert.ErrorIs(t, f.Add("a.b"), ErrBadMask)

	require.NoError(t, f.Add("1.2.3.4"))
	require.NoError(t, f.Add("5.6"))
	assert.Equal(t, []string{"1.2.3.4", "5.6.0.0"}, f.List())

	ok, err := f.Remove("1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Remove("9.9.9.9")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, f.Len())
}

func TestFilter_Full(t *testing.T) {
	f := New()
	for i := 0; i < MaxMasks; i++ {
		require.NoError(t, f.Add(fmt.Sprintf("10.%d.%d.1", i/256, i%256)))
	}
	assert.ErrorIs(t, f.Add("11.0.0.1"), ErrFull)
}

func TestFilter_WriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listip.cfg")

	f := New()
	require.NoError(t, f.Add("127.0.0.1"))
	require.NoError(t, f.Add("192.168.0.0"))
	require.NoError(t, f.WriteFile(path, 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "set sv_filterban 0\nsv addip 127.0.0.1\nsv addip 192.168.0.0\n", string(data))

	g := New()
	ban, err := g.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, ban)
	assert.Equal(t, f.List(), g.List())

	ban, err = New().LoadFile(filepath.Join(t.TempDir(), "missing.cfg"))
	require.NoError(t, err)
	assert.Equal(t, -1, ban)
}
