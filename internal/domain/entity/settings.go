package entity

// Settings preferencias de la consola (documento "settings").
type Settings struct {
	Theme       string `json:"theme"`       // light, dark, system
	AccentColor string `json:"accentColor"` // blue, green, purple, red
	Currency    string `json:"currency"`    // SAR, USD, YER
	Calendar    string `json:"calendar"`    // gregorian, hijri
}

var (
	validThemes    = []string{"light", "dark", "system"}
	validAccents   = []string{"blue", "green", "purple", "red"}
	validCurrency  = []string{"SAR", "USD", "YER"}
	validCalendars = []string{"gregorian", "hijri"}
)

// DefaultSettings valores iniciales.
func DefaultSettings() Settings {
	return Settings{Theme: "system", AccentColor: "blue", Currency: "SAR", Calendar: "gregorian"}
}

// Valid indica si todos los valores pertenecen a sus catálogos.
func (s Settings) Valid() bool {
	return oneOf(s.Theme, validThemes) && oneOf(s.AccentColor, validAccents) &&
		oneOf(s.Currency, validCurrency) && oneOf(s.Calendar, validCalendars)
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
