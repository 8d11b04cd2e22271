package battery

// Scheme is the way a power supply reports its remaining level.
type Scheme int

const (
	SchemeUnknown Scheme = iota
	ChargeBased
	EnergyBased
	CapacityOnly
)

func (s Scheme) String() string {
	switch s {
	case ChargeBased:
		return "charge"
	case EnergyBased:
		return "energy"
	case CapacityOnly:
		return "capacity"
	default:
		return "unknown"
	}
}

// PowerSource is one battery device under the power-supply root.
type PowerSource struct {
	Path   string
	Name   string
	Scheme Scheme
	Status string
}

// Aggregate is the combined reading over all batteries.
type Aggregate struct {
	Count    int
	Percent  float64
	Watt     float64
	Charging bool
	Full     bool
}

// SourceReader enumerates battery devices, with their status already read,
// and reads numeric attributes.
type SourceReader interface {
	Sources() []PowerSource
	ReadFloat(src PowerSource, attr string) (float64, bool)
}

// Options controls how device status is combined.
type Options struct {
	// AllSlots extends the charging and full checks from the first two
	// devices to every device.
	AllSlots bool
}
