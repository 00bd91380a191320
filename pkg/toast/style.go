package toast

import "strconv"

// Style holds the visual variables applied to the toast list. Lengths are
// in pixels. A nil length or empty color is unset and keeps the base value
// when merged, so an explicit zero length still overrides.
type Style struct {
	Offset       *float64 `json:"offset,omitempty" yaml:"offset,omitempty"`
	Width        *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	BorderRadius *float64 `json:"borderRadius,omitempty" yaml:"borderRadius,omitempty"`
	Gap          *float64 `json:"gap,omitempty" yaml:"gap,omitempty"`

	Background string `json:"background,omitempty" yaml:"background,omitempty"`
	Border     string `json:"border,omitempty" yaml:"border,omitempty"`

	SuccessColor string `json:"successColor,omitempty" yaml:"successColor,omitempty"`
	ErrorColor   string `json:"errorColor,omitempty" yaml:"errorColor,omitempty"`
	WarningColor string `json:"warningColor,omitempty" yaml:"warningColor,omitempty"`
	InfoColor    string `json:"infoColor,omitempty" yaml:"infoColor,omitempty"`

	PrimaryTextColor             string `json:"primaryTextColor,omitempty" yaml:"primaryTextColor,omitempty"`
	PrimaryTextColorForeground   string `json:"primaryTextColorForeground,omitempty" yaml:"primaryTextColorForeground,omitempty"`
	SecondaryTextColor           string `json:"secondaryTextColor,omitempty" yaml:"secondaryTextColor,omitempty"`
	SecondaryTextColorForeground string `json:"secondaryTextColorForeground,omitempty" yaml:"secondaryTextColorForeground,omitempty"`

	StrokeColor           string `json:"strokeColor,omitempty" yaml:"strokeColor,omitempty"`
	StrokeColorForeground string `json:"strokeColorForeground,omitempty" yaml:"strokeColorForeground,omitempty"`
	FillColor             string `json:"fillColor,omitempty" yaml:"fillColor,omitempty"`
}

// DefaultStyle returns the built-in palette.
func DefaultStyle() Style {
	return Style{
		Offset:       Px(16),
		Width:        Px(356),
		BorderRadius: Px(8),
		Gap:          Px(16),

		Background: "oklch(1 0 0)",
		Border:     "oklch(95.514% 0.00011 271.152)",

		SuccessColor: "oklch(0.627 0.194 149.214)",
		ErrorColor:   "oklch(0.577 0.245 27.325)",
		WarningColor: "oklch(0.705 0.213 47.604)",
		InfoColor:    "oklch(0.546 0.245 262.881)",

		PrimaryTextColor:             "oklch(0.141 0.005 285.823)",
		PrimaryTextColorForeground:   "oklch(1 0 0)",
		SecondaryTextColor:           "oklch(0.21 0.006 285.885)",
		SecondaryTextColorForeground: "oklch(0.985 0 0)",

		StrokeColor:           "oklch(1 0 0)",
		StrokeColorForeground: "oklch(1 0 0)",
		FillColor:             "oklch(1 0 0)",
	}
}

// MergeStyle returns base with every set field of override applied.
func MergeStyle(base, override Style) Style {
	out := base
	out.Offset = pickPx(base.Offset, override.Offset)
	out.Width = pickPx(base.Width, override.Width)
	out.BorderRadius = pickPx(base.BorderRadius, override.BorderRadius)
	out.Gap = pickPx(base.Gap, override.Gap)

	out.Background = pick(base.Background, override.Background)
	out.Border = pick(base.Border, override.Border)

	out.SuccessColor = pick(base.SuccessColor, override.SuccessColor)
	out.ErrorColor = pick(base.ErrorColor, override.ErrorColor)
	out.WarningColor = pick(base.WarningColor, override.WarningColor)
	out.InfoColor = pick(base.InfoColor, override.InfoColor)

	out.PrimaryTextColor = pick(base.PrimaryTextColor, override.PrimaryTextColor)
	out.PrimaryTextColorForeground = pick(base.PrimaryTextColorForeground, override.PrimaryTextColorForeground)
	out.SecondaryTextColor = pick(base.SecondaryTextColor, override.SecondaryTextColor)
	out.SecondaryTextColorForeground = pick(base.SecondaryTextColorForeground, override.SecondaryTextColorForeground)

	out.StrokeColor = pick(base.StrokeColor, override.StrokeColor)
	out.StrokeColorForeground = pick(base.StrokeColorForeground, override.StrokeColorForeground)
	out.FillColor = pick(base.FillColor, override.FillColor)
	return out
}

func pick(base, override string) string {
	if override != "" {
		return override
	}
	return base
}

func pickPx(base, override *float64) *float64 {
	if override != nil {
		v := *override
		return &v
	}
	if base != nil {
		v := *base
		return &v
	}
	return nil
}

// Px returns a length for a Style field.
func Px(v float64) *float64 { return &v }

// length dereferences a Style length, treating unset as 0.
func length(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Var is one CSS custom property.
type Var struct {
	Name  string
	Value string
}

// Vars returns the custom properties set on the toast list for position p.
func (s Style) Vars(p Position) []Var {
	return []Var{
		{"--toast-offset", px(length(s.Offset))},
		{"--width", px(length(s.Width))},
		{"--border-radius", px(length(s.BorderRadius))},
		{"--success-color", s.SuccessColor},
		{"--error-color", s.ErrorColor},
		{"--warning-color", s.WarningColor},
		{"--info-color", s.InfoColor},
		{"--text-color-secondary", s.SecondaryTextColor},
		{"--text-color-secondary-foreground", s.SecondaryTextColorForeground},
		{"--text-color-primary", s.PrimaryTextColor},
		{"--text-color-primary-foreground", s.PrimaryTextColorForeground},
		{"--stroke-color", s.StrokeColor},
		{"--stroke-color-foreground", s.StrokeColorForeground},
		{"--fill-color", s.FillColor},
		{"--background-color", s.Background},
		{"--gap", px(length(s.Gap))},
		{"--border-color", s.Border},
		{"--translate-x", p.TranslateX()},
	}
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
