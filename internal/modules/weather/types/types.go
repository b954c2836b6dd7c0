package types

// RawEntry is a single id/val pair from the station's live-data payload.
type RawEntry struct {
	ID  string `json:"id"`
	Val string `json:"val"`
}

// RawObservation is the station's /get_livedata_info payload as decoded from
// the device. common_list and rain are ordered id/val sequences; wh25 and co2
// arrive as sequences of code->value maps.
type RawObservation struct {
	CommonList []RawEntry          `json:"common_list"`
	Rain       []RawEntry          `json:"rain"`
	WH25       []map[string]string `json:"wh25"`
	CO2        []map[string]string `json:"co2"`
}

// Observation is a canonical weather reading. Pointer fields are nil until the
// station reports them; accumulation-style fields default to zero. An
// Observation is built once per poll cycle and never mutated after publish.
type Observation struct {
	DT             int64    `json:"dt"`
	Temperature    *float64 `json:"temperature"`
	Humidity       *float64 `json:"humidity"`
	Pressure       *float64 `json:"pressure"`
	Dewpoint       *float64 `json:"dewpoint"`
	Windchill      *float64 `json:"windchill"`
	HeatIndex      *float64 `json:"heatindex"`
	FeelsLike      *float64 `json:"feels_like"`
	AppTemp        *float64 `json:"app_temp"`
	WindSpeed      *float64 `json:"wind_speed"`
	WindDeg        *float64 `json:"wind_deg"`
	WindGust       *float64 `json:"wind_gust"`
	Rain1h         float64  `json:"rain_1h"`
	Rain24h        float64  `json:"rain_24h"`
	Solar          float64  `json:"solar"`
	UVI            float64  `json:"uvi"`
	InsideTemp     *float64 `json:"inside_temp"`
	InsideHumidity *float64 `json:"inside_humidity"`
	PM25           *float64 `json:"pm25"`
	PM25AQI        *float64 `json:"pm25aqi"`
	PM10           *float64 `json:"pm10"`
	PM10AQI        *float64 `json:"pm10aqi"`
	CO2            *float64 `json:"co2"`
}

// FieldOrder is the canonical display/export order of Observation fields.
var FieldOrder = []string{
	"dt",
	"temperature", "humidity", "pressure",
	"dewpoint", "windchill", "heatindex",
	"feels_like", "app_temp",
	"wind_speed", "wind_deg", "wind_gust",
	"rain_1h", "rain_24h",
	"solar", "uvi",
	"inside_temp", "inside_humidity",
	"pm25", "pm25aqi", "pm10", "pm10aqi", "co2",
}

// Fields returns every Observation field keyed by canonical name. Absent
// pointer fields map to nil so callers can tell "not reported" from a zero
// reading.
func (o *Observation) Fields() map[string]any {
	deref := func(p *float64) any {
		if p == nil {
			return nil
		}
		return *p
	}
	return map[string]any{
		"dt":              o.DT,
		"temperature":     deref(o.Temperature),
		"humidity":        deref(o.Humidity),
		"pressure":        deref(o.Pressure),
		"dewpoint":        deref(o.Dewpoint),
		"windchill":       deref(o.Windchill),
		"heatindex":       deref(o.HeatIndex),
		"feels_like":      deref(o.FeelsLike),
		"app_temp":        deref(o.AppTemp),
		"wind_speed":      deref(o.WindSpeed),
		"wind_deg":        deref(o.WindDeg),
		"wind_gust":       deref(o.WindGust),
		"rain_1h":         o.Rain1h,
		"rain_24h":        o.Rain24h,
		"solar":           o.Solar,
		"uvi":             o.UVI,
		"inside_temp":     deref(o.InsideTemp),
		"inside_humidity": deref(o.InsideHumidity),
		"pm25":            deref(o.PM25),
		"pm25aqi":         deref(o.PM25AQI),
		"pm10":            deref(o.PM10),
		"pm10aqi":         deref(o.PM10AQI),
		"co2":             deref(o.CO2),
	}
}
