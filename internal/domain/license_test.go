package domain

import (
	"reflect"
	"testing"
)

func TestLicense_Permits(t *testing.T) {
	license := NewLicense(ModalityConditional, ModalityRefusal)

	if !license.Permits(ModalityConditional) || !license.Permits(ModalityRefusal) {
		t.Fatal("expected conditional and refusal to be permitted")
	}
	if license.Permits(ModalityAssertive) {
		t.Fatal("assertive must not be permitted")
	}
}

func TestLicense_ModalitiesSorted(t *testing.T) {
	license := NewLicense(ModalityRefusal, ModalityAssertive, ModalityConditional)
	want := []string{"assertive", "conditional", "refusal"}
	if got := license.Modalities(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLicense_EmptyIsNonNil(t *testing.T) {
	license := NewLicense()
	got := license.Modalities()
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
}
