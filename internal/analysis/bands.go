package analysis

// PriceBand is a marker color class of the residential layer
type PriceBand struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

var (
	BandLow  = PriceBand{Name: "low", Color: "#00E676"}
	BandMid  = PriceBand{Name: "mid", Color: "orange"}
	BandHigh = PriceBand{Name: "high", Color: "red"}
)

// Band thresholds in currency units per month
const (
	MidBandFloor  = 1200
	HighBandFloor = 1800
)

// ClassifyPrice maps a monthly price to its band. A band starts strictly above
// its floor, so 1200 is still low and 1800 is still mid.
func ClassifyPrice(price int) PriceBand {
	switch {
	case price > HighBandFloor:
		return BandHigh
	case price > MidBandFloor:
		return BandMid
	default:
		return BandLow
	}
}
