package extensibility

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHashLocation(t *testing.T) {
	l := NewHashLocation("#!#")
	if got := l.FormatURL("/dashboard"); got != "#!#/dashboard" {
		t.Errorf("FormatURL = %q", got)
	}
	l.SetURL("/login")
	if got := l.URL(); got != "#!#/login" {
		t.Errorf("URL = %q", got)
	}

	tests := []struct {
		fragment string
		want     string
		ok       bool
	}{
		{"#!#/dashboard/1", "/dashboard/1", true},
		{"#!#", "/", true},
		{"#/dashboard", "", false},
	}
	for _, tt := range tests {
		got, ok := l.Path(tt.fragment)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Path(%q) = %q, %v; want %q, %v", tt.fragment, got, ok, tt.want, tt.ok)
		}
	}

	if got := NewHashLocation("").FormatURL("/x"); got != "#/x" {
		t.Errorf("default prefix FormatURL = %q", got)
	}
}

func TestHistoryLocation(t *testing.T) {
	l := NewHistoryLocation("/app/")
	defer l.Close()

	if got := l.FormatURL("/posts/1"); got != "/app/posts/1" {
		t.Errorf("FormatURL = %q", got)
	}
	if got := l.FormatURL("/"); got != "/app" {
		t.Errorf("FormatURL(/) = %q", got)
	}

	l.SetURL("/")
	l.SetURL("/posts")
	l.SetURL("/posts")
	l.SetURL("/posts/1")
	if diff := cmp.Diff([]string{"/", "/posts", "/posts/1"}, l.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	if !l.Back() {
		t.Fatal("Back should succeed")
	}
	if got := <-l.Paths(); got != "/posts" {
		t.Errorf("popped %q, want /posts", got)
	}
	l.Back()
	if l.Back() {
		t.Error("Back past the first entry should fail")
	}
}

func TestMemoryLocation(t *testing.T) {
	l := NewMemoryLocation()
	if l.Last() != "" {
		t.Error("new location should be empty")
	}
	l.SetURL("/a")
	l.SetURL("/b")
	if l.Last() != "/b" || l.FormatURL("/c") != "/c" {
		t.Errorf("Last = %q", l.Last())
	}
	if diff := cmp.Diff([]string{"/a", "/b"}, l.URLs()); diff != "" {
		t.Errorf("urls mismatch (-want +got):\n%s", diff)
	}
}
