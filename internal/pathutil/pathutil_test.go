// Copyright (c) xrfs contributors
// Licensed under the MIT license

package pathutil

import (
	"reflect"
	"testing"
)

func TestAncestors(t *testing.T) {
	got := Ancestors("/tmp/x/data/textures/sky.tga")
	want := []string{"/tmp/x/data/textures", "/tmp/x/data", "/tmp/x", "/tmp"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAncestorsTopLevel(t *testing.T) {
	got := Ancestors("/foo")
	want := []string{}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTruthy(t *testing.T) {
	for _, s := range []string{"on", "yes", "true", "1"} {
		if !Truthy(s) {
			t.Errorf("Truthy(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"On", "no", "0", "", "false"} {
		if Truthy(s) {
			t.Errorf("Truthy(%q) = true, want false", s)
		}
	}
}
