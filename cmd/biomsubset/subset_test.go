package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/metagenomisc/biom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const traitTable = `{"id": null, "format": "Biological Observation Matrix 1.0.0", "type": "Gene table",
"matrix_type": "sparse", "matrix_element_type": "float", "shape": [2, 3],
"rows": [{"id": "K00001", "metadata": null}, {"id": "K00002", "metadata": null}],
"columns": [{"id": "GG_OTU_1", "metadata": {"NSTI": 0.25}}, {"id": "GG_OTU_2", "metadata": {"NSTI": 0.5}}, {"id": "GG_OTU_9", "metadata": {"NSTI": 0.75}}],
"data": [[0, 0, 1.0], [0, 1, 2.0], [0, 2, 4.0], [1, 1, 1.0]]}`

func TestReadIDs(t *testing.T) {
	ids, err := readIDs(strings.NewReader("# header\nGG_OTU_1\n\n  GG_OTU_9\textra\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"GG_OTU_1", "GG_OTU_9"}, ids)

	ids, err = readIDs(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSubset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traits.biom")
	require.NoError(t, os.WriteFile(path, []byte(traitTable), 0644))

	var buf bytes.Buffer
	require.NoError(t, subset(path, []string{"GG_OTU_9", "GG_OTU_404", "GG_OTU_1"}, biom.Samples, &buf))

	table, err := biom.ParseBytes(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, []string{"GG_OTU_1", "GG_OTU_9"}, table.SampleIDs())
	assert.Equal(t, []string{"K00001", "K00002"}, table.ObservationIDs())
	assert.Equal(t, 1.0, table.Value(0, 0))
	assert.Equal(t, 4.0, table.Value(0, 1))
	assert.Equal(t, 2, table.NNZ())
	assert.Equal(t, 0.75, table.Metadata(biom.Samples)[1]["NSTI"])
}

func TestIDsFromTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traits.biom")
	require.NoError(t, os.WriteFile(path, []byte(traitTable), 0644))

	ids, err := idsFromTable(path, biom.Samples)
	require.NoError(t, err)
	assert.Equal(t, []string{"GG_OTU_1", "GG_OTU_2", "GG_OTU_9"}, ids)

	ids, err = idsFromTable(path, biom.Observations)
	require.NoError(t, err)
	assert.Equal(t, []string{"K00001", "K00002"}, ids)
}
