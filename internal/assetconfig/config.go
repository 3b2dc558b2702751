package assetconfig

import (
	"unicode/utf8"

	"github.com/wonny/rebalancer/internal/rebalance"
)

// Catalog is the asset set an operator works with.
// ⭐ SSOT: 자산 목록/기본값은 이 구조체로만 전달
type Catalog struct {
	Meta   Meta    `yaml:"meta" json:"meta"`
	Assets []Asset `yaml:"assets" json:"assets"`
}

// Meta 카탈로그 공통 설정
type Meta struct {
	Name      string `yaml:"name" json:"name"`
	Currency  string `yaml:"currency" json:"currency"`
	Separator string `yaml:"separator" json:"separator"`   // 천 단위 구분자 (한 글자)
	ValueStep int64  `yaml:"value_step" json:"value_step"` // 입력 증감 단위 (원)
}

// Asset 자산 한 종류와 입력 기본값
type Asset struct {
	Label        string `yaml:"label" json:"label"`
	DefaultValue int64  `yaml:"default_value" json:"default_value"`
	DefaultPct   int    `yaml:"default_pct" json:"default_pct"`
}

// Default returns the built-in four-asset catalog.
func Default() *Catalog {
	return &Catalog{
		Meta: Meta{
			Name:      "default",
			Currency:  "KRW",
			Separator: ",",
			ValueStep: 100_000,
		},
		Assets: []Asset{
			{Label: "주식", DefaultValue: 1_000_000, DefaultPct: 25},
			{Label: "채권", DefaultValue: 1_000_000, DefaultPct: 25},
			{Label: "ETF", DefaultValue: 1_000_000, DefaultPct: 25},
			{Label: "현금", DefaultValue: 1_000_000, DefaultPct: 25},
		},
	}
}

// AssetList returns labels in display order.
func (c *Catalog) AssetList() []rebalance.Asset {
	out := make([]rebalance.Asset, len(c.Assets))
	for i, a := range c.Assets {
		out[i] = rebalance.Asset(a.Label)
	}
	return out
}

// SeparatorRune returns the thousands separator, or the default when unset.
func (c *Catalog) SeparatorRune() rune {
	if c.Meta.Separator == "" {
		return rebalance.DefaultSeparator
	}
	r, _ := utf8.DecodeRuneInString(c.Meta.Separator)
	return r
}

// Parser returns an amount parser for this catalog's separator.
func (c *Catalog) Parser() rebalance.Parser {
	return rebalance.NewParser(c.SeparatorRune())
}

// DefaultValues returns the initial raw value inputs, formatted with the separator.
func (c *Catalog) DefaultValues() map[rebalance.Asset]string {
	out := make(map[rebalance.Asset]string, len(c.Assets))
	for _, a := range c.Assets {
		out[rebalance.Asset(a.Label)] = rebalance.FormatAmount(a.DefaultValue, c.SeparatorRune())
	}
	return out
}

// DefaultPercents returns the initial raw percent inputs.
func (c *Catalog) DefaultPercents() map[rebalance.Asset]string {
	out := make(map[rebalance.Asset]string, len(c.Assets))
	for _, a := range c.Assets {
		out[rebalance.Asset(a.Label)] = itoa(a.DefaultPct)
	}
	return out
}

// DefaultPctSum 기본 비중 합계
func (c *Catalog) DefaultPctSum() int {
	sum := 0
	for _, a := range c.Assets {
		sum += a.DefaultPct
	}
	return sum
}
