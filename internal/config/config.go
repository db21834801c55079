package config

import "panefm/internal/domain"

type Config struct {
	LeftPath         string            `json:"leftPath"`
	RightPath        string            `json:"rightPath"`
	ShowHidden       bool              `json:"showHidden"`
	SortMode         domain.SortMode   `json:"sortMode"`
	Theme            string            `json:"theme"`
	KeyBindings      map[string]string `json:"keyBindings"`
	ConfirmTransfers bool              `json:"confirmTransfers"`
	LogFile          string            `json:"logFile"`
	LogLevel         string            `json:"logLevel"`
}

const (
	keyLeftPath         = "leftPath"
	keyRightPath        = "rightPath"
	keyShowHidden       = "showHidden"
	keySortMode         = "sortMode"
	keyTheme            = "theme"
	keyKeyBindings      = "keyBindings"
	keyConfirmTransfers = "confirmTransfers"
	keyLogFile          = "logFile"
	keyLogLevel         = "logLevel"
)
