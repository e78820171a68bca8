package models

// Region is a coarse geographic label used to localize generated content
type Region string

const (
	RegionGlobal       Region = "Global"
	RegionNorthAmerica Region = "North America"
	RegionEurope       Region = "Europe"
	RegionAsia         Region = "Asia"
	RegionAfrica       Region = "Africa"
	RegionAustralia    Region = "Australia"
)

// DefaultTimeZone is used whenever the runtime time zone can't be read
const DefaultTimeZone = "UTC"

// String returns the region label, defaulting to Global when empty
func (r Region) String() string {
	if r == "" {
		return string(RegionGlobal)
	}
	return string(r)
}

// LocationState is the outcome of time-zone based location detection
type LocationState struct {
	Region     Region `json:"region"`
	TimeZone   string `json:"time_zone"`
	IsLocating bool   `json:"is_locating"`
}
