// biom2bigquery flattens a BIOM table into one (observation_id, sample_id,
// value) record per non-zero cell. Records are printed as TSV, or appended
// to a BigQuery table when -table is set. Samples already present in the
// BigQuery table are skipped, so an interrupted upload can be resumed.
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/carbocation/metagenomisc"
	"github.com/carbocation/metagenomisc/biom"
	_ "github.com/carbocation/metagenomisc/compileinfoprint"
)

var (
	BufferSize = 4096 * 32
	STDOUT     = bufio.NewWriterSize(os.Stdout, BufferSize)
)

var client *storage.Client

func main() {
	defer STDOUT.Flush()

	var (
		BQ        = &WrappedBigQuery{}
		inputPath string
		batchSize int
	)
	flag.StringVar(&inputPath, "i", "", "BIOM table (or classic tab-delimited table) to flatten. May be compressed. Optionally, may be a google storage URL (gs://)")
	flag.StringVar(&BQ.Project, "project", "", "Name of the Google Cloud project that hosts your BigQuery database instance")
	flag.StringVar(&BQ.Database, "bigquery", "", "BigQuery dataset name")
	flag.StringVar(&BQ.Table, "table", "", "(Optional) BigQuery table to append to. If empty, records are printed to stdout as TSV.")
	flag.IntVar(&batchSize, "batch", 500, "Number of records sent to BigQuery per request")
	flag.Parse()

	if inputPath == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide -i")
	}

	if BQ.Table != "" && (BQ.Project == "" || BQ.Database == "") {
		flag.PrintDefaults()
		log.Fatalln("Please provide -project and -bigquery along with -table")
	}

	log.Println("Started running at", time.Now())
	defer func() {
		log.Println("Completed at", time.Now())
	}()

	if metagenomisc.IsGoogleStoragePath(inputPath) {
		var err error
		client, err = storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
	}

	text, err := metagenomisc.ReadAllMaybeCompressed(inputPath, client)
	if err != nil {
		log.Fatalln(err)
	}
	table, err := biom.Load(text)
	if err != nil {
		log.Fatalln(err)
	}
	nObs, nSamples := table.Shape()
	log.Printf("Loaded %d observations across %d samples (%d non-zero values)\n", nObs, nSamples, table.NNZ())

	if BQ.Table == "" {
		if err := WriteRows(STDOUT, Rows(table, nil)); err != nil {
			log.Fatalln(err)
		}
		return
	}

	BQ.Context = context.Background()
	BQ.Client, err = bigquery.NewClient(BQ.Context, BQ.Project)
	if err != nil {
		log.Fatalln("Connecting to BigQuery:", err)
	}
	defer BQ.Client.Close()

	if err := Upload(BQ, table, batchSize); err != nil {
		log.Fatalln(err)
	}
}
