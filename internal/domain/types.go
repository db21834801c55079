package domain

type SortMode string

const (
	SortByName SortMode = "name"
	SortBySize SortMode = "size"
	SortByMod  SortMode = "mod"
)

func ParseSortMode(value string, fallback SortMode) SortMode {
	switch SortMode(value) {
	case SortByName, SortBySize, SortByMod:
		return SortMode(value)
	default:
		return fallback
	}
}

func (mode SortMode) Next() SortMode {
	switch mode {
	case SortByName:
		return SortBySize
	case SortBySize:
		return SortByMod
	default:
		return SortByName
	}
}
