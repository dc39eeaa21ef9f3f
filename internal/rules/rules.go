package rules

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Rules mirrors the scanner's critical dependencies file.
type Rules struct {
	// CriticalDependencies must be pinned to a stable ref.
	CriticalDependencies []string `yaml:"critical_dependencies"`
	// TrustedOwners may use tags or branches instead of commit SHAs.
	TrustedOwners []string `yaml:"trusted_owners"`
}

// Parse decodes the first document in data. Unknown keys are an error so
// that a misspelled section is caught before the scanner silently ignores
// it. An empty document yields empty Rules.
func Parse(data []byte) (*Rules, error) {
	var r Rules
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		if err == io.EOF {
			return &r, nil
		}
		return nil, errors.Wrap(err, "decode rules")
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Load reads and parses the rules file at path.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read rules")
	}
	r, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return r, nil
}

// --- helpers -----------------------------------------------------------------

func (r *Rules) validate() error {
	for i, dep := range r.CriticalDependencies {
		if strings.TrimSpace(dep) == "" {
			return errors.Errorf("critical_dependencies[%d] is empty", i)
		}
	}
	for i, owner := range r.TrustedOwners {
		if strings.TrimSpace(owner) == "" {
			return errors.Errorf("trusted_owners[%d] is empty", i)
		}
		if strings.Contains(owner, "/") {
			return errors.Errorf("trusted_owners[%d] %q must be an owner, not owner/repo", i, owner)
		}
	}
	return nil
}
