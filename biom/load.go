package biom

import (
	"bytes"

	"github.com/carbocation/metagenomisc"
)

// TaxonomyColumn is the metadata column of classic OTU tables.
const TaxonomyColumn = "taxonomy"

// Load parses either form of a table: BIOM JSON when the text opens with a
// '{', and a classic delimited table otherwise, with its delimiter guessed
// from the text.
func Load(text []byte) (*Table, error) {
	if trimmed := bytes.TrimSpace(text); len(trimmed) > 0 && trimmed[0] == '{' {
		return ParseBytes(text)
	}

	delimiter := metagenomisc.DetermineDelimiter(bytes.NewReader(text), '\t')

	return ReadDelimited(bytes.NewReader(text), delimiter, TaxonomyColumn)
}
