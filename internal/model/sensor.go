package model

import "fmt"

// Unknown is shown for a reading that has not arrived yet.
const Unknown = "--"

// SensorReading is the latest fridge climate sample. Nil fields are unknown.
type SensorReading struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

func (s SensorReading) TemperatureLabel() string {
	if s.Temperature == nil {
		return Unknown
	}
	return fmt.Sprintf("%.1f° C", *s.Temperature)
}

func (s SensorReading) HumidityLabel() string {
	if s.Humidity == nil {
		return Unknown
	}
	return fmt.Sprintf("%.0f%%", *s.Humidity)
}
