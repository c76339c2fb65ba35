package constants

// International standard atmosphere constants used by the barometric model.
const (
	LapseRate   = 0.0065    // K/m
	Gravity     = 9.80665   // m/s^2
	MolarMass   = 0.0289644 // kg/mol
	GasConstant = 8.31432   // J/(mol*K)

	// BarometricExponent is R*L/(g*M).
	BarometricExponent = GasConstant * LapseRate / (Gravity * MolarMass)
	// SpeedDivisor converts the log-pressure rate into the reported speed unit.
	SpeedDivisor = 1000.0
)

const (
	// StandardTemperature is the default reference temperature in kelvin.
	StandardTemperature = 293.15
	// SeaLevelPressure is the default reference pressure in pascal.
	SeaLevelPressure = 101325.0
	// DisplayScale is applied to the raw vertical speed before rounding.
	DisplayScale = 100.0
)
