package slug

import (
	"fmt"
	"testing"
)

// TestMake は自由テキストからのスラッグ生成を検証する。
func TestMake(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"Hello   World", "hello-world"},
		{"  Hello World  ", "hello-world"},
		{"Hello, World!", "hello-world"},
		{"Café au Lait", "cafe-au-lait"},
		{"Über alles", "uber-alles"},
		{"100% Pure", "100-pure"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER_case", "upper-case"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("input=%q", tt.input), func(t *testing.T) {
			got := Make(tt.input)
			if got != tt.expected {
				t.Errorf("Make(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestUnique_NoCollision は未使用の候補がそのまま返ることを検証する。
func TestUnique_NoCollision(t *testing.T) {
	taken := map[string]bool{}
	got := Unique("hello-world", func(s string) bool { return taken[s] })
	if got != "hello-world" {
		t.Errorf("Unique = %q, want %q", got, "hello-world")
	}
}

// TestUnique_Collision は衝突時に連番サフィックスで最小の未使用値を返すことを検証する。
func TestUnique_Collision(t *testing.T) {
	tests := []struct {
		name     string
		taken    map[string]bool
		expected string
	}{
		{"1つ衝突", map[string]bool{"hello-world": true}, "hello-world-1"},
		{"2つ衝突", map[string]bool{"hello-world": true, "hello-world-1": true}, "hello-world-2"},
		{"-1のみ使用済み", map[string]bool{"hello-world": true, "hello-world-2": true}, "hello-world-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Unique("hello-world", func(s string) bool { return tt.taken[s] })
			if got != tt.expected {
				t.Errorf("Unique = %q, want %q", got, tt.expected)
			}
		})
	}
}

// TestIsValid はスラッグ形式の検証を確認する。
func TestIsValid(t *testing.T) {
	valid := []string{"hello", "hello-world", "a1-b2", "100"}
	invalid := []string{"", "Hello", "hello world", "-hello", "hello-", "héllo"}

	for _, s := range valid {
		if !IsValid(s) {
			t.Errorf("IsValid(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValid(s) {
			t.Errorf("IsValid(%q) = true, want false", s)
		}
	}
}
