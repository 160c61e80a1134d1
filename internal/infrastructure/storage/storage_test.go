package storage

import (
	"battlescape-server/pkg/logger"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestResultsService_SaveLoad(t *testing.T) {
	svc := NewResultsService(filepath.Join(t.TempDir(), "results"))
	rec := &MatchRecord{Seed: 42, Timestamp: 1700000000, Winner: 7, Payload: []byte{8, 7, 1, 2, 3}}

	path, err := svc.Save(rec)
	require.NoError(t, err)
	assert.Equal(t, "results_42_1700000000.bsr", filepath.Base(path))

	got, err := svc.Load(path)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestReadBinary_Errors(t *testing.T) {
	tests := []struct {
		name string
		data func() []byte
	}{
		{"bad magic", func() []byte {
			var buf bytes.Buffer
			require.NoError(t, writeBinary(&buf, &MatchRecord{Payload: []byte{1}}))
			b := buf.Bytes()
			copy(b, "XXXX")
			return b
		}},
		{"truncated payload", func() []byte {
			var buf bytes.Buffer
			require.NoError(t, writeBinary(&buf, &MatchRecord{Payload: []byte{1, 2, 3}}))
			return buf.Bytes()[:buf.Len()-1]
		}},
		{"short header", func() []byte { return []byte("BSRS") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readBinary(bytes.NewReader(tt.data()))
			assert.Error(t, err)
		})
	}

	var buf bytes.Buffer
	require.NoError(t, writeBinary(&buf, &MatchRecord{}))
	b := buf.Bytes()
	copy(b, "CDRP")
	_, err := readBinary(bytes.NewReader(b))
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestStatsLog_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.log")
	l := NewStatsLog(path)
	require.NoError(t, l.Append("one"))
	require.NoError(t, l.Append("two"))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	line := regexp.MustCompile(`^\[STATS\] \d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} - (.+)$`)
	for i, want := range []string{"one", "two"} {
		m := line.FindStringSubmatch(lines[i])
		require.NotNil(t, m, "line %q", lines[i])
		assert.Equal(t, want, m[1])
	}

	// после Close журнал дописывается, а не перезаписывается
	require.NoError(t, l.Append("three"))
	require.NoError(t, l.Close())
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "[STATS] "))
}

func TestStatsFormatter(t *testing.T) {
	e := &logrus.Entry{
		Time:    time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC),
		Message: "Team 1 got the first round",
	}
	out, err := StatsFormatter{}.Format(e)
	require.NoError(t, err)
	assert.Equal(t, "[STATS] 2024/03/05 07:08:09 - Team 1 got the first round\n", string(out))
}

func TestStatsLog_BadPath(t *testing.T) {
	l := NewStatsLog(filepath.Join(t.TempDir(), "missing", "stats.log"))
	assert.Error(t, l.Append("lost"))
}
