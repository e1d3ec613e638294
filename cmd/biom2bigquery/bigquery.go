package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"cloud.google.com/go/bigquery"
	"github.com/carbocation/metagenomisc/biom"
	"github.com/carbocation/pfx"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

type WrappedBigQuery struct {
	Context  context.Context
	Client   *bigquery.Client
	Project  string
	Database string
	Table    string
}

// Upload appends the cells of every sample not yet in the BigQuery table,
// creating the table first if needed.
func Upload(wbq *WrappedBigQuery, t *biom.Table, batchSize int) error {
	if batchSize < 1 {
		batchSize = 1
	}

	if err := createTableIfMissing(wbq); err != nil {
		return err
	}

	existing, err := findExistingSamplesBQ(wbq)
	if err != nil {
		return err
	}
	log.Printf("Found %d samples already in the database\n", len(existing))

	rows := Rows(t, existing)
	log.Printf("Inserting %d records\n", len(rows))

	ins := wbq.Client.Dataset(wbq.Database).Table(wbq.Table).Inserter()
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		if err := ins.Put(wbq.Context, rows[start:end]); err != nil {
			return pfx.Err(fmt.Errorf("inserting records %d-%d: %w", start, end, err))
		}

		if (start/batchSize)%100 == 0 {
			log.Printf("Inserted %d of %d records\n", end, len(rows))
		}
	}

	return nil
}

func createTableIfMissing(wbq *WrappedBigQuery) error {
	table := wbq.Client.Dataset(wbq.Database).Table(wbq.Table)

	_, err := table.Metadata(wbq.Context)
	if err == nil {
		return nil
	} else if !isNotFound(err) {
		return pfx.Err(err)
	}

	schema, err := bigquery.InferSchema(Row{})
	if err != nil {
		return pfx.Err(err)
	}

	log.Printf("Creating table %s.%s\n", wbq.Database, wbq.Table)
	return pfx.Err(table.Create(wbq.Context, &bigquery.TableMetadata{Schema: schema}))
}

func findExistingSamplesBQ(wbq *WrappedBigQuery) (map[string]struct{}, error) {
	known := make(map[string]struct{})

	query := wbq.Client.Query(fmt.Sprintf(`SELECT DISTINCT sample_id
	FROM %s.%s
	WHERE sample_id IS NOT NULL
`, wbq.Database, wbq.Table))
	itr, err := query.Read(wbq.Context)
	if err != nil && isNotFound(err) {
		// Not an error; the table just doesn't exist yet
		return known, nil
	} else if err != nil {
		return nil, pfx.Err(err)
	}
	for {
		var values struct {
			SampleID string `bigquery:"sample_id"`
		}
		err := itr.Next(&values)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, pfx.Err(err)
		}
		known[values.SampleID] = struct{}{}
	}

	return known, nil
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
