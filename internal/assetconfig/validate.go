package assetconfig

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/Rhymond/go-money"
)

// ValidationError 검증 실패 (로드 중단)
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Validate checks all required constraints
func Validate(cfg *Catalog) error {
	// === Meta ===
	if money.GetCurrency(cfg.Meta.Currency) == nil {
		return ValidationError{"meta.currency", fmt.Sprintf("unknown currency %q", cfg.Meta.Currency)}
	}
	if utf8.RuneCountInString(cfg.Meta.Separator) != 1 {
		return ValidationError{"meta.separator", "must be exactly one character"}
	}
	if r, _ := utf8.DecodeRuneInString(cfg.Meta.Separator); unicode.IsDigit(r) {
		return ValidationError{"meta.separator", "must not be a digit"}
	}
	if cfg.Meta.ValueStep < 0 {
		return ValidationError{"meta.value_step", "must be >= 0"}
	}

	// === Assets ===
	if len(cfg.Assets) == 0 {
		return ValidationError{"assets", "at least one asset required"}
	}
	seen := make(map[string]bool, len(cfg.Assets))
	for i, a := range cfg.Assets {
		field := fmt.Sprintf("assets[%d]", i)
		if a.Label == "" {
			return ValidationError{field + ".label", "required"}
		}
		if seen[a.Label] {
			return ValidationError{field + ".label", fmt.Sprintf("duplicate label %q", a.Label)}
		}
		seen[a.Label] = true
		if a.DefaultValue < 0 {
			return ValidationError{field + ".default_value", "must be >= 0"}
		}
		if a.DefaultPct < 0 || a.DefaultPct > 100 {
			return ValidationError{field + ".default_pct", "must be in [0, 100]"}
		}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Catalog) []Warning {
	var warnings []Warning

	if sum := cfg.DefaultPctSum(); sum != 100 {
		warnings = append(warnings, Warning{
			Code:    "DEFAULT_PCT_SUM",
			Message: fmt.Sprintf("default allocation sums to %d%%, the first calculation will be skipped", sum),
		})
	}

	if cfg.Meta.Currency != "KRW" {
		warnings = append(warnings, Warning{
			Code:    "NON_KRW",
			Message: fmt.Sprintf("currency %s: amounts are still parsed as whole units", cfg.Meta.Currency),
		})
	}

	return warnings
}
