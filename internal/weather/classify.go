package weather

// Classify maps a provider condition code to its icon category.
// Codes outside the known bands, including 803/804, render as cloud.
func Classify(code int) IconCategory {
	switch {
	case code >= 200 && code < 300:
		return IconRain
	case code >= 300 && code < 400:
		return IconDrizzle
	case code >= 500 && code < 600:
		return IconRain
	case code >= 600 && code < 700:
		return IconSnow
	case code >= 700 && code < 800:
		return IconWind
	case code == 800:
		return IconSun
	case code == 801 || code == 802:
		return IconPartlyCloudy
	default:
		return IconCloud
	}
}
