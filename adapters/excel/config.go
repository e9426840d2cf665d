package excel

import "survivalvolume/adapters/coercer"

// ReaderConfig holds configuration for reading spreadsheet exports
type ReaderConfig struct {
	Coercion coercer.CoercionConfig `json:"coercion"`
	MaxRows  int                    `json:"max_rows"` // 0 means unlimited
}

// DefaultReaderConfig returns sensible defaults for Studylog exports
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Coercion: coercer.DefaultCoercionConfig(),
		MaxRows:  0,
	}
}
