package coloredcoins

const (
	Version = "v0.1.0"
)
