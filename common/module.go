package common

type Module string

const (
	ModuleColoredCoins Module = "coloredcoins"
)

func (m Module) String() string {
	return string(m)
}
