package config

import (
	"fmt"

	"github.com/spf13/viper"

	"resume-builder/resume/keywords"
)

type taxonomyFile struct {
	Terms []keywords.Term `mapstructure:"terms"`
}

// LoadTaxonomyFile reads a taxonomy from a YAML, JSON or TOML file shaped as
//
//	terms:
//	  - name: Go
//	    synonyms: [golang]
func LoadTaxonomyFile(path string) (keywords.Taxonomy, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return keywords.Taxonomy{}, fmt.Errorf("read taxonomy file: %w", err)
	}
	var file taxonomyFile
	if err := v.Unmarshal(&file); err != nil {
		return keywords.Taxonomy{}, fmt.Errorf("decode taxonomy file: %w", err)
	}
	taxonomy := keywords.FromTerms(file.Terms)
	if taxonomy.Len() == 0 {
		return keywords.Taxonomy{}, fmt.Errorf("taxonomy file %s has no terms", path)
	}
	return taxonomy, nil
}
