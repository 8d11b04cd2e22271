package battery

import "math"

// Stats aggregates every battery reported by a SourceReader. Nothing is
// cached: each call re-enumerates the devices.
type Stats struct {
	reader SourceReader
	opts   Options
}

func NewStats(reader SourceReader, opts Options) *Stats {
	return &Stats{reader: reader, opts: opts}
}

// Count returns the number of battery devices present right now.
func (s *Stats) Count() int {
	return len(s.reader.Sources())
}

// Percent blends per-device readings into one percentage. Charge and energy
// devices add now/1e6 and full/1e6; capacity-only devices add capacity/100
// to now and 1 to full. Mixed systems are therefore approximate.
func (s *Stats) Percent() float64 {
	return s.percent(s.reader.Sources())
}

func (s *Stats) percent(sources []PowerSource) float64 {
	var now, full float64

	for _, src := range sources {
		switch src.Scheme {
		case ChargeBased:
			n, _ := s.reader.ReadFloat(src, AttrChargeNow)
			f, _ := s.reader.ReadFloat(src, AttrChargeFull)
			now += n / 1e6
			full += f / 1e6
		case EnergyBased:
			n, _ := s.reader.ReadFloat(src, AttrEnergyNow)
			f, _ := s.reader.ReadFloat(src, AttrEnergyFull)
			now += n / 1e6
			full += f / 1e6
		case CapacityOnly:
			c, _ := s.reader.ReadFloat(src, AttrCapacity)
			now += c / 100
			full++
		}
	}

	if full <= 0 {
		return 0
	}

	return clamp(now / full * 100)
}

// Power returns the discharge wattage of device i, or 0 while charging.
func (s *Stats) Power(i int) float64 {
	sources := s.reader.Sources()
	if s.charging(sources) {
		return 0
	}

	return s.power(sources, i)
}

func (s *Stats) power(sources []PowerSource, i int) float64 {
	if i < 0 || i >= len(sources) {
		return 0
	}

	src := sources[i]
	if current, ok := s.reader.ReadFloat(src, AttrCurrentNow); ok {
		voltage, _ := s.reader.ReadFloat(src, AttrVoltageNow)
		return current / 1e6 * voltage / 1e6
	}

	p, _ := s.reader.ReadFloat(src, AttrPowerNow)
	return p / 1e6
}

// IsCharging reports whether slot 0 or 1 is charging.
func (s *Stats) IsCharging() bool {
	return s.charging(s.reader.Sources())
}

func (s *Stats) charging(sources []PowerSource) bool {
	for _, status := range s.slots(sources) {
		if status == StatusCharging {
			return true
		}
	}

	return false
}

// IsFull reports whether slots 0 and 1 are both full. It is never true with
// fewer than two devices.
func (s *Stats) IsFull() bool {
	return s.full(s.reader.Sources())
}

func (s *Stats) full(sources []PowerSource) bool {
	statuses := s.slots(sources)
	if len(sources) < 2 {
		return false
	}

	for _, status := range statuses {
		if status != StatusFull {
			return false
		}
	}

	return true
}

// slots returns the statuses considered for the charging and full checks:
// exactly two slots unless AllSlots is set. Absent slots read as "".
func (s *Stats) slots(sources []PowerSource) []string {
	n := 2
	if s.opts.AllSlots && len(sources) > n {
		n = len(sources)
	}

	statuses := make([]string, n)
	for i := 0; i < n && i < len(sources); i++ {
		statuses[i] = sources[i].Status
	}

	return statuses
}

// Update takes one consistent reading of all devices.
func (s *Stats) Update() Aggregate {
	sources := s.reader.Sources()

	agg := Aggregate{
		Count:    len(sources),
		Percent:  s.percent(sources),
		Charging: s.charging(sources),
		Full:     s.full(sources),
	}

	if !agg.Charging {
		for i := range sources {
			agg.Watt += s.power(sources, i)
		}
	}

	return agg
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
