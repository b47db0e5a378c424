package dataimporter

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/buslane/buslane/pkg/util"
	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"
)

var (
	// ErrAgencyNotAllowed marks a mode or identifier family the importer
	// is not permitted to touch at all.
	ErrAgencyNotAllowed = errors.New("agency family is not allowed")
	// ErrAgencyUnknown marks an identifier inside an allowed family that
	// the provider does not recognise.
	ErrAgencyUnknown = errors.New("unknown agency")
)

// AllowList is the fixed set of provider agency identifiers the system
// may import, keyed by mode.
type AllowList map[string][]string

// Identifier prefixes the provider actually serves per mode. An id
// outside these families is forbidden outright rather than merely
// unknown.
var allowedPrefixes = map[string][]string{
	"buses": {"GSBC", "SBSC"},
}

func DefaultAllowList() AllowList {
	return AllowList{
		"buses": {
			"GSBC001", "GSBC002", "GSBC003", "GSBC004", "SBSC006",
			"GSBC007", "GSBC008", "GSBC009", "GSBC010", "GSBC014",
		},
	}
}

type allowListFile struct {
	Modes map[string][]string `yaml:"modes" validate:"required,min=1,dive,min=1,dive,min=1"`
}

// LoadAllowListFile reads an operator-supplied allow-list override.
func LoadAllowListFile(path string) (AllowList, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file allowListFile
	if err := yaml.Unmarshal(body, &file); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("invalid allow-list file %s: %w", path, err)
	}

	for mode, ids := range file.Modes {
		file.Modes[mode] = util.RemoveDuplicateStrings(ids, nil)
	}

	return AllowList(file.Modes), nil
}

var (
	allowListOnce   sync.Once
	globalAllowList AllowList
)

// GetAllowList returns the active allow-list, the built-in set unless
// BUSLANE_ALLOWLIST_FILE points at an override.
func GetAllowList() AllowList {
	allowListOnce.Do(func() {
		globalAllowList = DefaultAllowList()

		env := util.GetEnvironmentVariables()
		if path := env["BUSLANE_ALLOWLIST_FILE"]; path != "" {
			loaded, err := LoadAllowListFile(path)
			if err == nil {
				globalAllowList = loaded
			}
		}
	})

	return globalAllowList
}

// Check validates an import target. The two failure cases are
// distinguishable so callers can answer Forbidden vs NotFound.
func (a AllowList) Check(mode string, agencyID string) error {
	prefixes := allowedPrefixes[mode]
	if len(prefixes) == 0 {
		return fmt.Errorf("%w: mode %s (available: %s)", ErrAgencyNotAllowed, mode, strings.Join(a.Modes(), ", "))
	}

	allowedFamily := false
	for _, prefix := range prefixes {
		if strings.HasPrefix(agencyID, prefix) {
			allowedFamily = true
		}
	}
	if !allowedFamily {
		return fmt.Errorf("%w: only %s agencies may be imported for %s", ErrAgencyNotAllowed, strings.Join(prefixes, "/"), mode)
	}

	if !a.Contains(mode, agencyID) {
		return fmt.Errorf("%w: %s", ErrAgencyUnknown, agencyID)
	}

	return nil
}

// Contains reports plain membership, used by the query side where any
// unknown id is just NotFound.
func (a AllowList) Contains(mode string, agencyID string) bool {
	return util.ContainsString(a[mode], agencyID)
}

func (a AllowList) Modes() []string {
	modes := maps.Keys(a)
	sort.Strings(modes)

	return modes
}
