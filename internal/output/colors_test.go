package output

import (
	"bytes"
	"testing"
)

func TestColorSchemes(t *testing.T) {
	for name, scheme := range map[string]*ColorScheme{
		"default":  DefaultColorScheme(),
		"no color": NoColorScheme(),
	} {
		if scheme.Method == nil || scheme.URL == nil || scheme.StatusOK == nil ||
			scheme.StatusWarn == nil || scheme.StatusError == nil ||
			scheme.HeaderKey == nil || scheme.Redirect == nil || scheme.Highlight == nil {
			t.Errorf("%s scheme has nil colors", name)
		}
	}

	if got := NoColorScheme().Method.Sprint("GET"); got != "GET" {
		t.Errorf("Expected plain text from NoColorScheme, got %q", got)
	}
}

func TestColorScheme_Status(t *testing.T) {
	scheme := DefaultColorScheme()
	tests := []struct {
		code int
		want string
	}{
		{200, "ok"},
		{204, "ok"},
		{301, "warn"},
		{404, "error"},
		{500, "error"},
		{0, "error"},
	}

	for _, tt := range tests {
		var want = map[string]interface{}{
			"ok":    scheme.StatusOK,
			"warn":  scheme.StatusWarn,
			"error": scheme.StatusError,
		}[tt.want]
		if got := scheme.Status(tt.code); got != want {
			t.Errorf("Status(%d): expected %s color", tt.code, tt.want)
		}
	}
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer

	t.Setenv("FORCE_COLOR", "")
	t.Setenv("NO_COLOR", "")
	if ColorEnabled(&buf, false) {
		t.Error("Expected color disabled for a non-terminal writer")
	}

	t.Setenv("FORCE_COLOR", "1")
	if !ColorEnabled(&buf, false) {
		t.Error("Expected FORCE_COLOR to enable color")
	}
	if ColorEnabled(&buf, true) {
		t.Error("Expected --no-color to win over FORCE_COLOR")
	}

	t.Setenv("NO_COLOR", "1")
	if ColorEnabled(&buf, false) {
		t.Error("Expected NO_COLOR to disable color")
	}
}

func TestIcons(t *testing.T) {
	if SuccessIcon(true) != "✓" {
		t.Errorf("Expected plain checkmark, got %q", SuccessIcon(true))
	}
	if ErrorIcon(true) != "✗" {
		t.Errorf("Expected plain cross, got %q", ErrorIcon(true))
	}
}
