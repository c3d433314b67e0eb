package decode

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srf-tools/microphonics/internal/model"
)

const sampleFile = `# ACCL:L1B:0200:RESA:
# wave_samp_per : 2
# cavities = 1 2 3 4

1.000000  2.000000  3.000000  4.000000
5.000000  6.000000            8.000000

9.000000
`

func TestSplitHeader(t *testing.T) {
	header, lines, err := SplitHeader(strings.NewReader(sampleFile))
	require.NoError(t, err)

	assert.Len(t, header, 3)
	assert.Equal(t, []string{
		"1.000000  2.000000  3.000000  4.000000",
		"5.000000  6.000000            8.000000",
		"9.000000",
	}, lines)
}

func TestSplitHeader_CommentAfterDataIsData(t *testing.T) {
	_, lines, err := SplitHeader(strings.NewReader("1.0\n# late comment\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0", "# late comment"}, lines)
}

func TestHeader_Value(t *testing.T) {
	header, _, err := SplitHeader(strings.NewReader(sampleFile))
	require.NoError(t, err)

	v, ok := header.Value("WAVE_SAMP_PER")
	require.True(t, ok)
	assert.Equal(t, "2", v)

	v, ok = header.Value("cavities")
	require.True(t, ok)
	assert.Equal(t, "1 2 3 4", v)

	_, ok = header.Value("missing")
	assert.False(t, ok)
}

func TestHeader_Decimation(t *testing.T) {
	tests := []struct {
		name   string
		header Header
		want   int
		ok     bool
	}{
		{name: "present", header: Header{"# wave_samp_per: 4"}, want: 4, ok: true},
		{name: "missing", header: Header{"# cavities: 1 2"}},
		{name: "not a number", header: Header{"# wave_samp_per = fast"}},
		{name: "zero", header: Header{"# wave_samp_per = 0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.header.Decimation()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead(t *testing.T) {
	ds, err := Read(strings.NewReader(sampleFile))
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Records)
	assert.Equal(t, []float64{1, 5, 9}, ds.Channel(1))
	assert.Equal(t, []float64{2, 6}, ds.Channel(2))
	assert.Equal(t, []float64{3}, ds.Channel(3))
	assert.Equal(t, []float64{4, 8}, ds.Channel(4))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "res_CM02_cav1234_c1_20240101_120000")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0o644))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, ds.Source)
	assert.Equal(t, []int{1, 2, 3, 4}, ds.Populated())
	assert.Equal(t, [model.NumChannels]int{1, 2, 3, 4}, ds.Cavities)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad")
	require.NoError(t, os.WriteFile(path, []byte("# header\nnot a number\n"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrChannelOne)
	assert.Contains(t, err.Error(), path)
}
