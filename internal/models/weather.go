package models

// LocationQuery is the city and state parsed from one line of user input.
type LocationQuery struct {
	CityName  string `json:"cityName"`
	StateCode string `json:"stateCode"`
}

// GeocodeCandidate is one match returned by the geocoding API.
type GeocodeCandidate struct {
	Name    string  `json:"name"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Coordinates returns the candidate's latitude/longitude pair.
func (c GeocodeCandidate) Coordinates() Coordinates {
	return Coordinates{Lat: c.Lat, Lon: c.Lon}
}

// Coordinates is the latitude/longitude pair sent to the weather API.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WeatherData holds the current conditions as returned upstream (temperature in Kelvin).
type WeatherData struct {
	TemperatureKelvin float64 `json:"temperatureKelvin"`
	Humidity          int     `json:"humidity"`
	Description       string  `json:"description"`
}

// Report is everything the reporter needs to print one weather report.
type Report struct {
	Query              LocationQuery `json:"query"`
	Coordinates        Coordinates   `json:"coordinates"`
	TemperatureCelsius float64       `json:"temperatureCelsius"`
	Humidity           int           `json:"humidity"`
	Description        string        `json:"description"`
}
