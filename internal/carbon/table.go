// Package carbon implements the deterministic rule-based carbon estimate:
// a material-intensity lookup, a distance-thresholded transport-mode
// selector, and a grade mapping.
package carbon

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/ecotrace/carbon-cli/internal/model"
)

// Table holds the static material and transport intensity data. It is
// read-only configuration, not logic the estimator owns.
type Table struct {
	// Materials maps material name to kg CO2 emitted per kg produced.
	Materials map[string]float64 `yaml:"materials"`
	// Transport maps mode to kg CO2 per kg of cargo per km.
	Transport map[model.TransportMode]float64 `yaml:"transport"`
	// DefaultIntensity covers materials missing from the table.
	DefaultIntensity float64 `yaml:"default_intensity"`
}

// DefaultTable returns the built-in intensity data.
func DefaultTable() *Table {
	return &Table{
		Materials: map[string]float64{
			"plastic":         3.5,
			"aluminum":        11.0,
			"steel":           2.0,
			"stainless steel": 2.8,
			"glass":           0.9,
			"paper":           1.1,
			"cardboard":       0.8,
			"cotton":          8.0,
			"polyester":       5.5,
			"nylon":           7.6,
			"wool":            22.0,
			"leather":         17.0,
			"wood":            0.5,
			"bamboo":          0.3,
			"ceramic":         1.4,
			"rubber":          3.2,
			"silicone":        3.0,
			"carbon fiber":    24.0,
			"mixed":           4.0,
		},
		Transport: map[model.TransportMode]float64{
			model.TransportGround: 0.00010,
			model.TransportSea:    0.000015,
			model.TransportAir:    0.00060,
		},
		DefaultIntensity: 4.0,
	}
}

// LoadTable reads an intensity table from a YAML file, filling gaps from
// the built-in defaults.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "carbon: read table %s", path)
	}

	t := DefaultTable()
	var override Table
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, eris.Wrapf(err, "carbon: parse table %s", path)
	}

	for k, v := range override.Materials {
		t.Materials[k] = v
	}
	for k, v := range override.Transport {
		t.Transport[k] = v
	}
	if override.DefaultIntensity > 0 {
		t.DefaultIntensity = override.DefaultIntensity
	}
	return t, nil
}

// Intensity returns the production intensity for a material and whether
// the material was found in the table.
func (t *Table) Intensity(material string) (float64, bool) {
	if v, ok := t.Materials[material]; ok {
		return v, true
	}
	return t.DefaultIntensity, false
}

// recyclable materials, used when building the predictor feature vector.
var recyclable = map[string]bool{
	"aluminum":        true,
	"steel":           true,
	"stainless steel": true,
	"glass":           true,
	"paper":           true,
	"cardboard":       true,
}

// Recyclability classifies a material for the feature vector contract.
func Recyclability(material string) string {
	if recyclable[material] {
		return "recyclable"
	}
	if material == "" {
		return "unknown"
	}
	return "non_recyclable"
}
