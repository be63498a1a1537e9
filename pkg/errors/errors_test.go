package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "canvas",
			err:  New(ErrCodeInvalidCanvas, "canvas %dx%d is smaller than the %dx%d minimum", 120, 90, 300, 300),
			want: "INVALID_CANVAS: canvas 120x90 is smaller than the 300x300 minimum",
		},
		{
			name: "color",
			err:  New(ErrCodeInvalidColor, "invalid color %q: expected 6-char hex", "#abc"),
			want: `INVALID_COLOR: invalid color "#abc": expected 6-char hex`,
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeInvalidPath, fs.ErrPermission, "write %s", "art.png"),
			want: "INVALID_PATH: write art.png: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapChain(t *testing.T) {
	dial := errors.New("dial tcp 127.0.0.1:6379: connection refused")
	err := fmt.Errorf("cache get: %w", Wrap(ErrCodeNetwork, dial, "redis get"))

	if !errors.Is(err, dial) {
		t.Error("errors.Is should find the original cause")
	}
	if !Is(err, ErrCodeNetwork) {
		t.Error("Is should see the code through fmt.Errorf wrapping")
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("errors.As() should find the *Error")
	}
	if e.Cause != dial {
		t.Errorf("Cause = %v, want %v", e.Cause, dial)
	}
	if errors.Unwrap(e) != dial {
		t.Error("Unwrap() should return the cause")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"same code", New(ErrCodeInvalidFormat, "gif"), ErrCodeInvalidFormat, true},
		{"other code", New(ErrCodeInvalidFormat, "gif"), ErrCodeInvalidStyle, false},
		{"outermost code wins", Wrap(ErrCodeInternal, New(ErrCodeInvalidFormat, "gif"), "render"), ErrCodeInternal, true},
		{"inner code hidden", Wrap(ErrCodeInternal, New(ErrCodeInvalidFormat, "gif"), "render"), ErrCodeInvalidFormat, false},
		{"plain error", errors.New("boom"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"coded", New(ErrCodeInvalidConfig, "unknown key"), ErrCodeInvalidConfig},
		{"wrapped by fmt", fmt.Errorf("load: %w", New(ErrCodeInvalidConfig, "unknown key")), ErrCodeInvalidConfig},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeInvalidStyle, "invalid style: %q", "cubist"), `invalid style: "cubist"`},
		{"cause kept", Wrap(ErrCodeInvalidPath, fs.ErrNotExist, "read palette.toml"), "read palette.toml: file does not exist"},
		{
			"nested codes stripped",
			Wrap(ErrCodeNetwork, Wrap(ErrCodeInvalidConfig, errors.New("bad port"), "parse redis url"), "connect"),
			"connect: parse redis url: bad port",
		},
		{"plain", errors.New("plain error"), "plain error"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
