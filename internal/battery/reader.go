package battery

import (
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// Attribute file names under a power-supply device directory.
const (
	AttrChargeNow  = "charge_now"
	AttrChargeFull = "charge_full"
	AttrEnergyNow  = "energy_now"
	AttrEnergyFull = "energy_full"
	AttrCapacity   = "capacity"
	AttrStatus     = "status"
	AttrCurrentNow = "current_now"
	AttrVoltageNow = "voltage_now"
	AttrPowerNow   = "power_now"
)

const (
	StatusCharging = "Charging"
	StatusFull     = "Full"
)

// Reader reads power supplies from a sysfs-style tree.
type Reader struct {
	fs   afero.Fs
	root string
}

func NewReader(fs afero.Fs, root string) *Reader {
	return &Reader{fs: fs, root: root}
}

// Sources lists entries whose name contains "BAT", sorted by name. A missing
// root yields no sources.
func (r *Reader) Sources() []PowerSource {
	entries, err := afero.ReadDir(r.fs, r.root)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(entry.Name(), "BAT") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	sources := make([]PowerSource, 0, len(names))
	for _, name := range names {
		src := PowerSource{Path: filepath.Join(r.root, name), Name: name}
		src.Scheme = r.probe(src.Path)
		src.Status = r.ReadStatus(src)
		sources = append(sources, src)
	}

	return sources
}

func (r *Reader) probe(dir string) Scheme {
	switch {
	case r.exists(dir, AttrChargeNow) && r.exists(dir, AttrChargeFull):
		return ChargeBased
	case r.exists(dir, AttrEnergyNow) && r.exists(dir, AttrEnergyFull):
		return EnergyBased
	case r.exists(dir, AttrCapacity):
		return CapacityOnly
	default:
		return SchemeUnknown
	}
}

func (r *Reader) exists(dir, attr string) bool {
	ok, _ := afero.Exists(r.fs, filepath.Join(dir, attr))
	return ok
}

// ReadFloat returns the attribute as a number. The second result is false
// when the file is absent; unparsable or non-finite content reads as 0.
func (r *Reader) ReadFloat(src PowerSource, attr string) (float64, bool) {
	data, err := afero.ReadFile(r.fs, filepath.Join(src.Path, attr))
	if err != nil {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true
	}

	return v, true
}

// ReadStatus returns the trimmed status string, or "" when unreadable.
func (r *Reader) ReadStatus(src PowerSource) string {
	data, err := afero.ReadFile(r.fs, filepath.Join(src.Path, AttrStatus))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}
