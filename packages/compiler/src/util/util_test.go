package util

import "testing"

func TestCaseConversion(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{name: "camelize", fn: Camelize, in: "foo-bar-baz", want: "fooBarBaz"},
		{name: "camelize plain", fn: Camelize, in: "foo", want: "foo"},
		{name: "camelize digits", fn: Camelize, in: "h-1", want: "h1"},
		{name: "capitalize", fn: Capitalize, in: "fooBar", want: "FooBar"},
		{name: "capitalize empty", fn: Capitalize, in: "", want: ""},
		{name: "capitalize non-ascii", fn: Capitalize, in: "élan", want: "Élan"},
		{name: "hyphenate camel", fn: Hyphenate, in: "fooBar", want: "foo-bar"},
		{name: "hyphenate pascal", fn: Hyphenate, in: "MyButton", want: "my-button"},
		{name: "hyphenate plain", fn: Hyphenate, in: "button", want: "button"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
			}
		})
	}
}
