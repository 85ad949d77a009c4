package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"PetID", KeyPetID, "puffer", PetID("puffer")},
		{"Species", KeySpecies, "ray", Species("ray")},
		{"Stage", KeyStage, "baby", Stage("baby")},
		{"Scheme", KeyScheme, "threshold", Scheme("threshold")},
		{"Version", KeyVersion, "5.5", Version("5.5")},
		{"Path", KeyPath, "/tmp/data.json", Path("/tmp/data.json")},
		{"Event", KeyEvent, "StageTransitioned", Event("StageTransitioned")},
		{"Subject", KeySubject, "pufferpet.events", Subject("pufferpet.events")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestErrorHelper(t *testing.T) {
	a := Error(errors.New("boom"))
	if a.Value.String() != "boom" {
		t.Fatalf("expected boom, got %v", a.Value.String())
	}
	if Error(nil).Value.String() != "" {
		t.Fatal("nil error should produce an empty value")
	}
}
