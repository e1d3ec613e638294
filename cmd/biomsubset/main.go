// biomsubset writes the part of a BIOM document that covers a chosen set of
// ids along one axis, without decoding the rest of the document.
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"

	"cloud.google.com/go/storage"
	"github.com/carbocation/metagenomisc"
	"github.com/carbocation/metagenomisc/biom"
	_ "github.com/carbocation/metagenomisc/compileinfoprint"
)

var client *storage.Client

func main() {
	var inputPath, outputPath, idsPath, fromPath, axisName, fromAxisName string
	flag.StringVar(&inputPath, "i", "", "BIOM file to subset. May be compressed. Optionally, may be a google storage URL (gs://)")
	flag.StringVar(&outputPath, "o", "", "(Optional) Output path. If empty, the subset is written to stdout.")
	flag.StringVar(&idsPath, "ids", "", "File with one id to keep per line. Lines starting with # are skipped.")
	flag.StringVar(&fromPath, "from", "", "BIOM or classic table whose ids (along -from-axis) are the ids to keep. Alternative to -ids.")
	flag.StringVar(&axisName, "axis", "samples", "Axis of -i to subset: observations or samples")
	flag.StringVar(&fromAxisName, "from-axis", "observations", "Axis of the -from table whose ids are kept")
	flag.Parse()

	if inputPath == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide -i")
	}

	if (idsPath == "") == (fromPath == "") {
		flag.PrintDefaults()
		log.Fatalln("Please provide exactly one of -ids or -from")
	}

	axis, err := biom.ParseAxis(axisName)
	if err != nil {
		log.Fatalln(err)
	}

	for _, path := range []string{inputPath, outputPath, idsPath, fromPath} {
		if metagenomisc.IsGoogleStoragePath(path) {
			client, err = storage.NewClient(context.Background())
			if err != nil {
				log.Fatalln(err)
			}
			break
		}
	}

	var ids []string
	if idsPath != "" {
		ids, err = readIDsFromPath(idsPath)
	} else {
		var fromAxis biom.Axis
		fromAxis, err = biom.ParseAxis(fromAxisName)
		if err != nil {
			log.Fatalln(err)
		}
		ids, err = idsFromTable(fromPath, fromAxis)
	}
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("Subsetting %s to %d %s\n", inputPath, len(ids), axis)

	if outputPath != "" {
		w, err := metagenomisc.MaybeCreateOnGoogleStorage(outputPath, client)
		if err != nil {
			log.Fatalln(err)
		}
		if err := subset(inputPath, ids, axis, w); err != nil {
			log.Fatalln(err)
		}
		if err := w.Close(); err != nil {
			log.Fatalln(err)
		}
		return
	}

	bw := bufio.NewWriter(os.Stdout)
	if err := subset(inputPath, ids, axis, bw); err != nil {
		log.Fatalln(err)
	}
	if err := bw.Flush(); err != nil {
		log.Fatalln(err)
	}
}
