package data

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed zones.yaml
var zonesYAML []byte

// BiddingZone is one ENTSO-E bidding zone (EIC area code).
type BiddingZone struct {
	Code    string `yaml:"code" json:"code"`
	Country string `yaml:"country" json:"country_code"`
	Name    string `yaml:"name" json:"name"`
	TSO     string `yaml:"tso,omitempty" json:"tso,omitempty"`
}

func (z BiddingZone) String() string {
	if z.TSO != "" {
		return fmt.Sprintf("%s (%s) - %s", z.Name, z.Country, z.TSO)
	}
	return fmt.Sprintf("%s (%s)", z.Name, z.Country)
}

type zoneFile struct {
	Zones []BiddingZone `yaml:"zones"`
}

type zoneRegistry struct {
	byCountry map[string][]BiddingZone
	byCode    map[string]BiddingZone
	countries []string
}

var (
	registryOnce sync.Once
	registry     *zoneRegistry
)

func zones() *zoneRegistry {
	registryOnce.Do(func() {
		var f zoneFile
		if err := yaml.Unmarshal(zonesYAML, &f); err != nil {
			panic(fmt.Sprintf("embedded zones.yaml is invalid: %v", err))
		}
		registry = buildRegistry(f.Zones)
	})
	return registry
}

func buildRegistry(list []BiddingZone) *zoneRegistry {
	r := &zoneRegistry{
		byCountry: map[string][]BiddingZone{},
		byCode:    map[string]BiddingZone{},
	}
	for _, z := range list {
		if _, ok := r.byCountry[z.Country]; !ok {
			r.countries = append(r.countries, z.Country)
		}
		r.byCountry[z.Country] = append(r.byCountry[z.Country], z)
		r.byCode[z.Code] = z
	}
	sort.Strings(r.countries)
	return r
}

// ZonesByCountry returns the zones of a two-letter country code in listing order.
// The returned slice is a copy.
func ZonesByCountry(country string) ([]BiddingZone, bool) {
	list, ok := zones().byCountry[strings.ToUpper(strings.TrimSpace(country))]
	if !ok {
		return nil, false
	}
	out := make([]BiddingZone, len(list))
	copy(out, list)
	return out, true
}

func ZoneByCode(code string) (BiddingZone, bool) {
	z, ok := zones().byCode[strings.TrimSpace(code)]
	return z, ok
}

// PrimaryZone returns the first listed zone for a country.
func PrimaryZone(country string) (BiddingZone, bool) {
	list, ok := zones().byCountry[strings.ToUpper(strings.TrimSpace(country))]
	if !ok || len(list) == 0 {
		return BiddingZone{}, false
	}
	return list[0], true
}

// ListCountries returns every country code, sorted.
func ListCountries() []string {
	c := zones().countries
	out := make([]string, len(c))
	copy(out, c)
	return out
}
