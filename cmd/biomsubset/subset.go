package main

import (
	"bufio"
	"bytes"
	"io"
	"log"
	"strings"

	"github.com/carbocation/metagenomisc"
	"github.com/carbocation/metagenomisc/biom"
	"github.com/carbocation/pfx"
)

// readIDs takes the first tab-delimited field of each line. Blank lines and
// lines starting with # are skipped.
func readIDs(r io.Reader) ([]string, error) {
	var ids []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		ids = append(ids, strings.TrimSpace(strings.SplitN(line, "\t", 2)[0]))
	}

	return ids, pfx.Err(scanner.Err())
}

func readIDsFromPath(path string) ([]string, error) {
	text, err := metagenomisc.ReadAllMaybeCompressed(path, client)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return readIDs(bytes.NewReader(text))
}

func idsFromTable(path string, axis biom.Axis) ([]string, error) {
	text, err := metagenomisc.ReadAllMaybeCompressed(path, client)
	if err != nil {
		return nil, pfx.Err(err)
	}

	table, err := biom.Load(text)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return table.IDs(axis), nil
}

// subset streams the part of the document at path that keeps ids along axis.
func subset(path string, ids []string, axis biom.Axis, w io.Writer) error {
	text, err := metagenomisc.ReadAllMaybeCompressed(path, client)
	if err != nil {
		return pfx.Err(err)
	}

	fragments, err := biom.SubsetFragments(text, ids, axis)
	if err != nil {
		return pfx.Err(err)
	}
	log.Printf("Found %d of the %d requested %s\n", fragments.Len(), len(ids), axis)

	_, err = fragments.WriteTo(w)

	return pfx.Err(err)
}
