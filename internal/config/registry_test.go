package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	r := New()

	tests := []struct {
		name string
		want float64
	}{
		{MorPanic, 30},
		{MorShaken, 50},
		{MorRegeneration, 15},
		{MSanity, 1.0},
		{MRage, 0.6},
		{MRageStop, 2.0},
		{MPanicStop, 1.0},
		{SvMaxEntities, 1024},
		{SvMaxTeams, 2},
		{SvRoundTimeLimit, 0},
		{AINumAliens, 8},
		{SvEnableMorale, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, r.Float(tt.name), 1e-9)
		})
	}
}

func TestSet_ModifiedFlag(t *testing.T) {
	r := New()
	v := r.MustGet(SvRoundTimeLimit)
	assert.True(t, v.Modified(), "fresh variables start modified")

	v.ClearModified()
	r.Set(SvRoundTimeLimit, "0")
	assert.False(t, v.Modified(), "same value does not mark modified")

	r.SetInt(SvRoundTimeLimit, 15)
	assert.True(t, v.Modified())
	assert.Equal(t, 15, v.Int())
}

func TestLookup_Unknown(t *testing.T) {
	r := New()
	_, err := r.Lookup("no_such_var")
	require.ErrorIs(t, err, ErrUnknownVar)
	assert.Panics(t, func() { r.MustGet("no_such_var") })
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	data := []byte("server:\n  port: \"9000\"\n  seed: 42\ncvars:\n  mor_panic: 25\n  m_rage: 0.5\n  custom_flag: yes\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r := New()
	srv, err := r.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", srv.Port)
	assert.Equal(t, int64(42), srv.Seed)
	assert.Equal(t, 25, r.Int(MorPanic))
	assert.InDelta(t, 0.5, r.Float(MRage), 1e-9)
	assert.NotNil(t, r.Get("custom_flag"))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BSTEST_MOR_SHAKEN", "40")
	r := New()
	n := r.ApplyEnv("BSTEST_")
	assert.Equal(t, 1, n)
	assert.Equal(t, 40, r.Int(MorShaken))
}

func TestVar_NumericParsing(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.Set("x", "garbage").Int())
	assert.Equal(t, 2, r.Set("x", "2.9").Int())
	assert.True(t, r.Set("x", "1").Bool())
}

func TestRegistry_ConcurrentSetAndRead(t *testing.T) {
	r := New()
	v := r.MustGet(SvFilterBan)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			r.SetInt(SvFilterBan, i%2)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = r.Bool(SvFilterBan)
			if v.Modified() {
				v.ClearModified()
			}
		}
	}()
	wg.Wait()

	r.SetInt(SvFilterBan, 1)
	assert.True(t, r.Bool(SvFilterBan))
}
