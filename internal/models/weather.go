package models

// WeatherData is the forecast slice handed to the predictor. The shape
// mirrors what the mobile client fetches from its weather provider;
// either section may be absent.
type WeatherData struct {
	Hourly []HourlyWeather `json:"hourly,omitempty"`
	Daily  *DailyWeather   `json:"daily,omitempty"`
}

// HourlyWeather is one forecast hour.
type HourlyWeather struct {
	Hour                     int     `json:"hour"` // 0..23, local device time
	PrecipitationProbability float64 `json:"precipitation_probability"`
	UVIndex                  float64 `json:"uv_index"`
}

// DailyWeather holds day-level aggregates.
type DailyWeather struct {
	UVIndexMax float64 `json:"uv_index_max"`
}
