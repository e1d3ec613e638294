// predictmetagenomes produces the functional predictions of a metagenome
// (e.g., KEGG KO counts per sample) from an OTU table and a table of
// precalculated per-OTU trait counts.
package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/carbocation/metagenomisc"
	"github.com/carbocation/metagenomisc/compileinfo"
	_ "github.com/carbocation/metagenomisc/compileinfoprint"
	"github.com/carbocation/metagenomisc/config"
	"github.com/kardianos/osext"
)

var client *storage.Client

func main() {
	var (
		opts                                options
		predictionType, configPath, dataDir string
	)

	flag.StringVar(&opts.InputPath, "i", "", "Input OTU table, in BIOM format or as a classic tab-delimited table. May be compressed and may be a gs:// path.")
	flag.StringVar(&opts.OutputPath, "o", "", "Output file for the predicted metagenome. May be a gs:// path.")
	flag.StringVar(&predictionType, "t", "KO", "Type of functional predictions. Valid choices are: KO, COG, or any type named in the -config file.")
	flag.StringVar(&opts.TraitTablePath, "c", "", "(Optional) Precalculated function predictions on a per-OTU basis in BIOM format (can be compressed). Overrides -t.")
	flag.StringVar(&opts.AccuracyPath, "a", "", "(Optional) If provided, calculate accuracy metrics (weighted NSTI) for the predicted metagenome and write them here. Requires NSTI values in the trait table's per-OTU metadata.")
	flag.BoolVar(&opts.SuppressSubsetLoading, "suppress-subset-loading", false, "Normally, only counts for OTUs present in the OTU table are loaded from the trait table. If set, the full trait table is loaded instead, at the cost of more memory.")
	flag.BoolVar(&opts.TabDelimited, "f", false, "Write the predicted metagenome as a tab-delimited table instead of BIOM.")
	flag.StringVar(&opts.MetadataKey, "metadata-key", "KEGG Pathways", "Function metadata entry written as the last column of tab-delimited (-f) output.")
	flag.StringVar(&configPath, "config", "", "(Optional) JSON configuration file with data_dir, trait_tables, nsti_metadata_key and generated_by entries.")
	flag.StringVar(&dataDir, "data-dir", "", "(Optional) Folder holding the precalculated trait tables. Defaults to the data folder next to this executable.")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Print progress information.")
	flag.Parse()

	if opts.InputPath == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide -i")
	}

	if opts.OutputPath == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide -o")
	}

	if dataDir == "" {
		folder, err := osext.ExecutableFolder()
		if err != nil {
			log.Fatalln(err)
		}
		dataDir = filepath.Join(folder, "data")
	}

	cfg := config.Default(dataDir)
	if configPath != "" {
		var err error
		cfg, err = config.ParseJSONConfigFromPath(configPath, dataDir)
		if err != nil {
			log.Fatalln(err)
		}
	}

	if opts.TraitTablePath == "" {
		var err error
		opts.TraitTablePath, err = cfg.TraitTable(predictionType)
		if err != nil {
			flag.PrintDefaults()
			log.Fatalln(err)
		}
	}

	opts.NSTIMetadataKey = cfg.NSTIMetadataKey
	opts.GeneratedBy = cfg.GeneratedBy
	if opts.GeneratedBy == "" {
		opts.GeneratedBy = compileinfo.Get().GeneratedBy()
	}

	// Initialize the Google Storage client only if we're pointing to Google
	// Storage paths.
	for _, path := range []string{opts.InputPath, opts.OutputPath, opts.TraitTablePath, opts.AccuracyPath} {
		if metagenomisc.IsGoogleStoragePath(path) {
			var err error
			client, err = storage.NewClient(context.Background())
			if err != nil {
				log.Fatalln(err)
			}
			break
		}
	}

	if err := run(opts); err != nil {
		log.Fatalln(err)
	}
}
