package models

const (
	AreaCopywriting = "copywriting"
	AreaVideo       = "video"
	AreaAdv         = "adv"
	AreaGrafica     = "grafica"
)

// Areas lists every business vertical in stable order.
func Areas() []string {
	return []string{AreaCopywriting, AreaVideo, AreaAdv, AreaGrafica}
}

func IsValidArea(area string) bool {
	switch area {
	case AreaCopywriting, AreaVideo, AreaAdv, AreaGrafica:
		return true
	}
	return false
}
