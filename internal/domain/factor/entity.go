package factor

import "time"

// DefaultFactor is used when an activity type is absent from both the
// database table and the built-in defaults. Lookups never fail.
const DefaultFactor = 0.1

// EmissionFactor maps an activity type to kg CO2e per unit. Negative
// factors are emission-reducing activities.
type EmissionFactor struct {
	ActivityType string    `db:"activity_type"`
	Factor       float64   `db:"factor"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Defaults returns the built-in factor table (kg CO2e per unit).
func Defaults() map[string]float64 {
	return map[string]float64{
		// Home energy
		"Electricity Usage":         0.82, // per kWh
		"Natural Gas Usage":         1.90, // per m3
		"LPG Usage":                 1.55, // per liter
		"Biogas Usage":              0.10, // per m3
		"Heating Oil":               2.70, // per liter
		"Coal Usage":                2.40, // per kg
		"Renewable Energy Purchase": -0.82,

		// Transport
		"Car (Petrol) Travel":     0.21, // per km
		"Car (Diesel) Travel":     0.25,
		"Motorcycle Travel":       0.07,
		"Bus Travel":              0.09, // per passenger-km
		"Train Travel":            0.04,
		"Metro Travel":            0.05,
		"Flight - Domestic":       0.18,
		"Flight - International":  0.14,
		"Electric Vehicle Travel": 0.10,
		"Bicycle Travel":          0.00,

		// Food & diet
		"Mutton Consumption":  24.0, // per kg
		"Chicken Consumption": 6.9,
		"Fish Consumption":    5.5,
		"Dairy Consumption":   1.2, // per liter
		"Vegetarian Diet":     3.5, // per day
		"Vegan Diet":          2.5,

		// Goods & services
		"Clothing Purchase":    0.005, // per unit spent
		"Electronics Purchase": 0.008,
		"Furniture Purchase":   0.006,
		"Waste Generated":      1.0, // per kg

		// Offsets & credits
		"Tree Planting":            -20,
		"Carbon Credit Purchase":   -1000,
		"Renewable Energy Support": -500,
		"Biogas Program Support":   -300,
	}
}
