package toast

import (
	"errors"
	"testing"
)

func TestMergeStyle(t *testing.T) {
	base := DefaultStyle()
	merged := MergeStyle(base, Style{Gap: Px(24), SuccessColor: "green"})

	if *merged.Gap != 24 {
		t.Errorf("Gap = %v, want 24", *merged.Gap)
	}
	if merged.SuccessColor != "green" {
		t.Errorf("SuccessColor = %q, want green", merged.SuccessColor)
	}
	if *merged.Width != *base.Width || merged.ErrorColor != base.ErrorColor {
		t.Error("unset fields should keep base values")
	}

	*merged.Offset = 99
	if *base.Gap != 16 || *base.Offset != 16 {
		t.Errorf("MergeStyle modified base: Gap = %v, Offset = %v", *base.Gap, *base.Offset)
	}
}

func TestMergeStyleZeroLengths(t *testing.T) {
	merged := MergeStyle(DefaultStyle(), Style{Gap: Px(0), Offset: Px(0), BorderRadius: Px(0)})

	for name, v := range map[string]*float64{
		"Gap":          merged.Gap,
		"Offset":       merged.Offset,
		"BorderRadius": merged.BorderRadius,
	} {
		if v == nil || *v != 0 {
			t.Errorf("%s = %v, want explicit 0", name, v)
		}
	}
	if *merged.Width != 356 {
		t.Errorf("Width = %v, want default", *merged.Width)
	}

	vars := merged.Vars(TopRight)
	for _, v := range vars {
		if v.Name == "--gap" && v.Value != "0px" {
			t.Errorf("--gap = %q, want 0px", v.Value)
		}
	}
}

func TestStyleVars(t *testing.T) {
	vars := DefaultStyle().Vars(BottomLeft)
	got := make(map[string]string, len(vars))
	for _, v := range vars {
		got[v.Name] = v.Value
	}

	want := map[string]string{
		"--toast-offset":  "16px",
		"--width":         "356px",
		"--border-radius": "8px",
		"--gap":           "16px",
		"--translate-x":   "-100%",
	}
	for name, value := range want {
		if got[name] != value {
			t.Errorf("%s = %q, want %q", name, got[name], value)
		}
	}
	if got["--success-color"] == "" || got["--background-color"] == "" {
		t.Error("color variables should be set")
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in   string
		want Position
		ok   bool
	}{
		{"top-right", TopRight, true},
		{" Bottom-Left ", BottomLeft, true},
		{"bottom-right", BottomRight, true},
		{"middle", "", false},
		{"top-center", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParsePosition(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParsePosition(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePosition(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if err != nil && !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("ParsePosition(%q) error should match ErrInvalidConfig", tt.in)
		}
	}
}

func TestPositionParts(t *testing.T) {
	if TopLeft.Vertical() != Top || TopLeft.Horizontal() != Left {
		t.Errorf("TopLeft parts = %s/%s", TopLeft.Vertical(), TopLeft.Horizontal())
	}
	if BottomRight.Vertical() != Bottom || BottomRight.Horizontal() != Right {
		t.Errorf("BottomRight parts = %s/%s", BottomRight.Vertical(), BottomRight.Horizontal())
	}
	if TopRight.TranslateX() != "100%" || BottomLeft.TranslateX() != "-100%" {
		t.Error("TranslateX should slide right-anchored toasts right and left-anchored left")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("warn"); err != nil || k != KindWarning {
		t.Errorf("ParseKind(warn) = %q, %v", k, err)
	}
	if k, err := ParseKind("SUCCESS"); err != nil || k != KindSuccess {
		t.Errorf("ParseKind(SUCCESS) = %q, %v", k, err)
	}
	if _, err := ParseKind("fatal"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParseKind(fatal) error = %v, want config error", err)
	}
}
