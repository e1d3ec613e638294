// Package config locates the reference data used by the prediction tools.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/carbocation/metagenomisc"
	"github.com/carbocation/metagenomisc/predict"
	"github.com/carbocation/pfx"
)

// PredictionTypes lists the functional predictions that ship with
// precalculated trait tables.
var PredictionTypes = []string{"KO", "COG"}

type Config struct {
	ConfigPath string `json:"-"`

	// DataDir holds the precalculated trait tables. Relative trait table
	// paths are resolved against it.
	DataDir string `json:"data_dir"`

	// TraitTables maps a prediction type, such as KO, onto a trait table.
	// Types without an entry fall back to <type>_precalculated.biom.gz in
	// DataDir.
	TraitTables map[string]string `json:"trait_tables"`

	NSTIMetadataKey string `json:"nsti_metadata_key"`
	GeneratedBy     string `json:"generated_by"`
}

// Default returns the configuration used when no file is given.
func Default(dataDir string) Config {
	return Config{
		DataDir:         metagenomisc.ExpandHome(dataDir),
		TraitTables:     map[string]string{},
		NSTIMetadataKey: predict.DefaultNSTIKey,
	}
}

// ParseJSONConfigFromPath reads a configuration file. Fields absent from the
// file keep the values of Default(dataDir).
func ParseJSONConfigFromPath(path, dataDir string) (Config, error) {
	out := Default(dataDir)
	out.ConfigPath = path

	f, err := os.Open(metagenomisc.ExpandHome(path))
	if err != nil {
		return out, pfx.Err(err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&out); err != nil {
		if e, ok := err.(*json.SyntaxError); ok {
			log.Printf("syntax error at byte offset %d", e.Offset)
		}
		return out, pfx.Err(err)
	}

	if out.TraitTables == nil {
		out.TraitTables = map[string]string{}
	}
	if out.NSTIMetadataKey == "" {
		out.NSTIMetadataKey = predict.DefaultNSTIKey
	}

	// Interpret ~ if present
	out.ConfigPath = metagenomisc.ExpandHome(out.ConfigPath)
	out.DataDir = metagenomisc.ExpandHome(out.DataDir)

	// Prediction types are case insensitive
	tables := make(map[string]string, len(out.TraitTables))
	for k, v := range out.TraitTables {
		tables[strings.ToUpper(k)] = v
	}
	out.TraitTables = tables

	return out, nil
}

// TraitTable returns the location of the trait table for a prediction type.
func (c Config) TraitTable(predictionType string) (string, error) {
	key := strings.ToUpper(predictionType)

	path, exists := c.TraitTables[key]
	if !exists {
		known := false
		for _, v := range PredictionTypes {
			if v == key {
				known = true
				break
			}
		}
		if !known {
			return "", fmt.Errorf("Prediction type %q is not recognized. Valid types include: %s", predictionType, strings.Join(c.Types(), ", "))
		}
		path = strings.ToLower(key) + "_precalculated.biom.gz"
	}

	path = metagenomisc.ExpandHome(path)
	if strings.HasPrefix(path, "gs://") || filepath.IsAbs(path) || c.DataDir == "" {
		return path, nil
	}
	if strings.HasPrefix(c.DataDir, "gs://") {
		return strings.TrimSuffix(c.DataDir, "/") + "/" + path, nil
	}

	return filepath.Join(c.DataDir, path), nil
}

// Types lists every prediction type this configuration can resolve.
func (c Config) Types() []string {
	seen := make(map[string]struct{})
	for _, v := range PredictionTypes {
		seen[v] = struct{}{}
	}
	for k := range c.TraitTables {
		seen[k] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}
