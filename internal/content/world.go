package content

// TimeOfDay phases cycle with the world tick.
type TimeOfDay string

const (
	Dawn  TimeOfDay = "dawn"
	Day   TimeOfDay = "day"
	Dusk  TimeOfDay = "dusk"
	Night TimeOfDay = "night"
)

// TicksPerDay is the number of world ticks that make one world day.
const TicksPerDay = 96

// PhaseForTick maps a tick index (0..TicksPerDay-1) to its phase. The day is
// split into four equal quarters starting at dawn.
func PhaseForTick(tick int) TimeOfDay {
	tick = ((tick % TicksPerDay) + TicksPerDay) % TicksPerDay
	switch {
	case tick < TicksPerDay/4:
		return Dawn
	case tick < TicksPerDay/2:
		return Day
	case tick < 3*TicksPerDay/4:
		return Dusk
	default:
		return Night
	}
}

// Weather states for the shared world row.
type Weather string

const (
	WeatherClear    Weather = "clear"
	WeatherRain     Weather = "rain"
	WeatherFog      Weather = "fog"
	WeatherHeatwave Weather = "heatwave"
	WeatherStorm    Weather = "storm"
)

// AllWeather lists every weather state; worker picks from it weighted.
func AllWeather() []Weather {
	return []Weather{WeatherClear, WeatherRain, WeatherFog, WeatherHeatwave, WeatherStorm}
}

func ValidWeather(w Weather) bool {
	for _, v := range AllWeather() {
		if v == w {
			return true
		}
	}
	return false
}
