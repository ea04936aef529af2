package constants

const (
	Version = "v0.1.0"
)

// BaseUnitDecimals is the number of fractional digits of one coin expressed in base units.
const BaseUnitDecimals = 8
