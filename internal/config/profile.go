package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/cetacean-eda/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadProfile reads an analysis profile from a YAML file. Keys missing from
// the file keep their default values; an empty path returns the defaults.
//
//	focus_species:
//	  - name: Tursiops truncatus
//	    color: "#264653"
//	top_n: 8
//	decade_split: 2012
//	periods:
//	  - {start: 2000, end: 2011}
//	  - {start: 2012, end: 2024}
func LoadProfile(path string) (domain.Profile, error) {
	profile := domain.DefaultProfile()
	if path == "" {
		return profile, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&profile); err != nil && !errors.Is(err, io.EOF) {
		return domain.Profile{}, fmt.Errorf("decode profile %s: %w", path, err)
	}

	if err := profile.Validate(); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}
