// Package mapper translates the station's vendor-coded live data into
// canonical Observation fields.
package mapper

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"localweather/internal/modules/weather/types"
)

// observationCodes maps sensor ids from the common_list and rain categories to
// canonical field names. Ids missing from the table are ignored so newer
// station firmware with extra sensors keeps working.
var observationCodes = map[string]string{
	"0x02": "temperature",
	"0x07": "humidity",
	"0x03": "dewpoint",
	"0x04": "windchill",
	"0x05": "heatindex",
	"0x0A": "wind_deg",
	"0x0B": "wind_speed",
	"0x0C": "wind_gust",
	"0x0E": "rain_1h",
	"0x10": "rain_24h",
	"0x15": "solar",
	"0x16": "uvi",
	"0x17": "uvi",
}

// wh25Codes maps the indoor sensor block to canonical field names.
var wh25Codes = map[string]string{
	"intemp": "inside_temp",
	"inhumi": "inside_humidity",
	"abs":    "pressure",
}

// co2Codes maps the air-quality combo sensor block to canonical field names.
var co2Codes = map[string]string{
	"PM25":         "pm25",
	"PM25_RealAQI": "pm25aqi",
	"PM10":         "pm10",
	"PM10_RealAQI": "pm10aqi",
	"CO2":          "co2",
}

var nonNumeric = regexp.MustCompile(`[^0-9.]+`)

// CleanValue strips unit suffixes and other non-numeric characters from a
// station value ("23.4 C", "1013.2 hPa", "52%") and returns the number rounded
// to one decimal place.
func CleanValue(s string) (float64, error) {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric content in %q", s)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return math.Round(v*10) / 10, nil
}

// steadmanSingularity is the temperature at which the vapor pressure term
// divides by zero. Readings at or below it are treated as out of range.
const steadmanSingularity = -237.7

// ApparentTemperature computes the Steadman apparent temperature (BOM variant,
// ignoring radiation) from temperature in degC, relative humidity in percent
// and wind speed in km/h. It returns nil when any input is missing or the
// result is not a finite number.
func ApparentTemperature(temp, humidity, wind *float64) *float64 {
	if temp == nil || humidity == nil || wind == nil {
		return nil
	}
	t := *temp
	if t <= steadmanSingularity {
		return nil
	}
	windMS := *wind / 3.6
	e := *humidity / 100 * 6.105 * math.Exp(17.27*t/(237.7+t))
	at := t + 0.33*e - 0.70*windMS - 4.00
	if math.IsNaN(at) || math.IsInf(at, 0) {
		return nil
	}
	return &at
}

// Map converts a raw station payload into a complete Observation stamped with
// the given epoch-second timestamp. Values that fail to parse leave their
// field at the absent default; the rest of the payload is still mapped.
func Map(raw *types.RawObservation, now int64) *types.Observation {
	obs := &types.Observation{DT: now}
	if raw == nil {
		return obs
	}
	for _, entry := range raw.CommonList {
		mapEntry(obs, observationCodes, entry.ID, entry.Val)
	}
	for _, entry := range raw.Rain {
		mapEntry(obs, observationCodes, entry.ID, entry.Val)
	}
	for _, block := range raw.WH25 {
		for id, val := range block {
			mapEntry(obs, wh25Codes, id, val)
		}
	}
	for _, block := range raw.CO2 {
		for id, val := range block {
			mapEntry(obs, co2Codes, id, val)
		}
	}
	obs.AppTemp = ApparentTemperature(obs.Temperature, obs.Humidity, obs.WindSpeed)
	obs.FeelsLike = obs.AppTemp
	return obs
}

func mapEntry(obs *types.Observation, codes map[string]string, id, val string) {
	field, ok := codes[id]
	if !ok {
		return
	}
	v, err := CleanValue(val)
	if err != nil {
		return
	}
	setField(obs, field, v)
}

func setField(obs *types.Observation, field string, v float64) {
	switch field {
	case "temperature":
		obs.Temperature = &v
	case "humidity":
		obs.Humidity = &v
	case "pressure":
		obs.Pressure = &v
	case "dewpoint":
		obs.Dewpoint = &v
	case "windchill":
		obs.Windchill = &v
	case "heatindex":
		obs.HeatIndex = &v
	case "wind_deg":
		obs.WindDeg = &v
	case "wind_speed":
		obs.WindSpeed = &v
	case "wind_gust":
		obs.WindGust = &v
	case "rain_1h":
		obs.Rain1h = v
	case "rain_24h":
		obs.Rain24h = v
	case "solar":
		obs.Solar = v
	case "uvi":
		obs.UVI = v
	case "inside_temp":
		obs.InsideTemp = &v
	case "inside_humidity":
		obs.InsideHumidity = &v
	case "pm25":
		obs.PM25 = &v
	case "pm25aqi":
		obs.PM25AQI = &v
	case "pm10":
		obs.PM10 = &v
	case "pm10aqi":
		obs.PM10AQI = &v
	case "co2":
		obs.CO2 = &v
	}
}
