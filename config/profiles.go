package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"recap-backend/models"

	"gopkg.in/yaml.v3"
)

// ErrUnknownProfile is returned when a profile name matches nothing
var ErrUnknownProfile = errors.New("unknown domain profile")

// profilesFile is the on-disk layout of DOMAIN_PROFILES_FILE
type profilesFile struct {
	Profiles []models.DomainProfile `yaml:"profiles"`
}

// BuiltinProfiles returns the profiles available without a profiles file
func BuiltinProfiles() map[string]models.DomainProfile {
	medical := models.MedicalDeviceProfile()
	return map[string]models.DomainProfile{
		medical.Name: medical,
	}
}

// LoadProfiles reads profiles from a YAML file and merges them over the
// built-in set. An empty path returns only the built-ins. Omitted
// min_word_length and max_terms take the default derivation rules.
func LoadProfiles(path string) (map[string]models.DomainProfile, error) {
	profiles := BuiltinProfiles()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var file profilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file %s: %w", path, err)
	}

	for i, p := range file.Profiles {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, fmt.Errorf("profile %d in %s has no name", i, path)
		}
		if p.MaxTerms < 0 || p.MinWordLength < 0 {
			return nil, fmt.Errorf("profile %s: min_word_length and max_terms must not be negative", p.Name)
		}
		if p.Framework != "" && !strings.Contains(p.Framework, models.CasesPlaceholder) {
			return nil, fmt.Errorf("profile %s: framework must contain %s", p.Name, models.CasesPlaceholder)
		}
		profiles[p.Name] = p.WithDefaults()
	}
	return profiles, nil
}

// ResolveProfile returns the named profile from the built-ins and path
func ResolveProfile(name, path string) (models.DomainProfile, error) {
	profiles, err := LoadProfiles(path)
	if err != nil {
		return models.DomainProfile{}, err
	}
	if name == "" {
		name = models.DefaultProfileName
	}
	p, ok := profiles[name]
	if !ok {
		return models.DomainProfile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// ProfileNames returns the profile names in sorted order
func ProfileNames(profiles map[string]models.DomainProfile) []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
