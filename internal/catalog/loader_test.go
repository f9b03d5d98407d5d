package catalog

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMapping = `Gene	KE	ke.name	AOP
ENSG001	KE:1549	Oxidative stress	AOP:17
ENSG002	KE:1549	Oxidative stress	AOP:17
ENSG003	KE:1549	Oxidative stress	AOP:294
ENSG002	KE:55	Cell injury	AOP:17
ENSG004	KE:55	Cell injury
ENSG005	KE:99	nan	AOP:3
ENSG006	KE:77
`

func writeMapping(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeMapping(t, "ke_map.tsv", testMapping)

	c := New()
	require.NoError(t, NewLoader(path).Load(c))

	// KE:99 and KE:77 have no usable display name and must be dropped
	// before they can reach the engine or the universe.
	assert.Equal(t, 2, c.SetCount())
	assert.Nil(t, c.Get("KE:99"))
	assert.Nil(t, c.Get("KE:77"))
	assert.Equal(t, 4, c.UniverseSize())

	s := c.Get("KE:1549")
	require.NotNil(t, s)
	assert.Equal(t, "Oxidative stress", s.Name)
	assert.Equal(t, 3, s.Size())
	assert.Equal(t, []string{"AOP:17", "AOP:294"}, s.AOPs)

	s = c.Get("KE:55")
	require.NotNil(t, s)
	assert.Equal(t, []string{"ENSG002", "ENSG004"}, s.SortedMembers())
	assert.Equal(t, []string{"AOP:17"}, s.AOPs)
}

func TestLoader_LoadGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ke_map.tsv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(testMapping))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	c := New()
	require.NoError(t, NewLoader(path).Load(c))
	assert.Equal(t, 2, c.SetCount())
}

func TestLoader_MissingRequiredColumns(t *testing.T) {
	path := writeMapping(t, "bad.tsv", "Gene\tname\nENSG001\tfoo\n")

	c := New()
	err := NewLoader(path).Load(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestLoader_EmptyFile(t *testing.T) {
	path := writeMapping(t, "empty.tsv", "")

	c := New()
	err := NewLoader(path).Load(c)
	require.Error(t, err)
}

func TestLoader_FileNotFound(t *testing.T) {
	c := New()
	err := NewLoader("/nonexistent/ke_map.tsv").Load(c)
	require.Error(t, err)
}
