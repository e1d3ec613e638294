package main

import (
	"io"
	"log"
	"time"

	"github.com/carbocation/metagenomisc"
	"github.com/carbocation/metagenomisc/biom"
	"github.com/carbocation/metagenomisc/predict"
	"github.com/carbocation/metagenomisc/report"
	"github.com/carbocation/pfx"
)

// DateLayout is the layout of the date recorded in the predicted table.
const DateLayout = "2006-01-02T15:04:05.000000"

type options struct {
	InputPath      string
	OutputPath     string
	TraitTablePath string
	AccuracyPath   string

	SuppressSubsetLoading bool
	TabDelimited          bool
	Verbose               bool

	// MetadataKey is the function metadata written with tab-delimited output.
	MetadataKey     string
	NSTIMetadataKey string
	GeneratedBy     string
}

func (o options) logf(format string, args ...interface{}) {
	if o.Verbose {
		log.Printf(format, args...)
	}
}

func run(opts options) error {
	opts.logf("Loading OTU table: %s\n", opts.InputPath)
	otuText, err := metagenomisc.ReadAllMaybeCompressed(opts.InputPath, client)
	if err != nil {
		return pfx.Err(err)
	}
	otus, err := biom.Load(otuText)
	if err != nil {
		return pfx.Err(err)
	}
	nOTUs, nSamples := otus.Shape()
	opts.logf("Done loading OTU table containing %d samples and %d OTUs\n", nSamples, nOTUs)

	traits, err := loadTraits(opts, otus.ObservationIDs())
	if err != nil {
		return err
	}

	if opts.AccuracyPath != "" {
		if err := writeAccuracy(opts, otus, traits); err != nil {
			return err
		}
	}

	opts.logf("Predicting the metagenome...\n")
	predicted, err := predict.Metagenomes(otus, traits)
	if err != nil {
		return pfx.Err(err)
	}

	header := predicted.Header
	header.GeneratedBy = opts.GeneratedBy
	header.Date = time.Now().Format(DateLayout)
	predicted = predicted.WithHeader(header)

	opts.logf("Writing results to output file: %s\n", opts.OutputPath)
	return writeTo(opts.OutputPath, func(w io.Writer) error {
		if opts.TabDelimited {
			return predicted.WriteDelimited(w, biom.DelimitedOptions{MetadataKey: opts.MetadataKey})
		}
		return predicted.WriteJSON(w)
	})
}

// loadTraits reads the trait table, keeping only the organisms named in ids
// unless subset loading is suppressed.
func loadTraits(opts options, ids []string) (*biom.Table, error) {
	opts.logf("Loading trait table: %s\n", opts.TraitTablePath)
	text, err := metagenomisc.ReadAllMaybeCompressed(opts.TraitTablePath, client)
	if err != nil {
		return nil, pfx.Err(err)
	}

	var traits *biom.Table
	if opts.SuppressSubsetLoading {
		opts.logf("Loading the full trait table because -suppress-subset-loading was set. This may use a lot of memory.\n")
		traits, err = biom.ParseBytes(text)
		if err != nil {
			return nil, pfx.Err(err)
		}
	} else {
		opts.logf("Loading traits for %d organisms from the trait table\n", len(ids))
		traits, err = biom.LoadSubset(text, ids, biom.Samples)
		if err != nil {
			return nil, pfx.Err(err)
		}

		found := len(traits.SampleIDs())
		log.Printf("Found %d of %d OTUs in the trait table\n", found, len(ids))
		if found < len(ids) {
			log.Printf("%d OTUs have no precalculated traits and will be ignored\n", len(ids)-found)
		}
	}

	nFunctions, nOrganisms := traits.Shape()
	opts.logf("Done loading trait table containing %d functions for %d organisms\n", nFunctions, nOrganisms)

	return traits, nil
}

func writeAccuracy(opts options, otus, traits *biom.Table) error {
	opts.logf("Calculating accuracy metrics\n")
	scores, err := predict.CalcNSTI(otus, traits, predict.NSTIOptions{MetadataKey: opts.NSTIMetadataKey})
	if err != nil {
		return pfx.Err(err)
	}

	for _, score := range scores {
		if !score.Value.Valid {
			log.Printf("Sample %s has no abundance among OTUs with a known distance; its %s is undefined\n", score.SampleID, score.Metric)
		}
	}

	if summary, err := report.Summarize(scores); err == nil {
		opts.logf("%s: %s\n", predict.WeightedNSTIMetric, summary)
	}

	opts.logf("Writing accuracy metrics to: %s\n", opts.AccuracyPath)
	return writeTo(opts.AccuracyPath, func(w io.Writer) error {
		return report.WriteAccuracy(w, scores)
	})
}

// writeTo creates path, locally or on Google Storage, and hands it to write.
// The file is closed even when write fails.
func writeTo(path string, write func(io.Writer) error) error {
	w, err := metagenomisc.MaybeCreateOnGoogleStorage(path, client)
	if err != nil {
		return pfx.Err(err)
	}

	if err := write(w); err != nil {
		w.Close()
		return pfx.Err(err)
	}

	return pfx.Err(w.Close())
}
