package names

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "names.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadsHeaderedCSV(t *testing.T) {
	path := writeCSV(t, "program,name\n0,Acoustic Grand Piano\n24,Nylon Guitar\n")
	table := LoadInstruments(path)

	assert := assert.New(t)
	assert.Len(table, 2)
	assert.Equal("Acoustic Grand Piano", table[0])
	assert.Equal("Nylon Guitar", table[24])
}

func TestMissingFileYieldsEmptyTable(t *testing.T) {
	table := LoadPercussion("/nonexistent/percussion.csv")
	assert.NotNil(t, table)
	assert.Empty(t, table)
}

func TestBadRowsAreSkipped(t *testing.T) {
	path := writeCSV(t, "key,name\nnot-a-number,Cowbell\n56,Cowbell\n300,TooBig\n42\n")
	table := LoadPercussion(path)

	assert := assert.New(t)
	assert.Len(table, 1)
	assert.Equal("Cowbell", table[56])
}
