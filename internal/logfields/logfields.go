// Package logfields centralizes canonical slog field names so log keys do
// not drift across packages.
package logfields

import "log/slog"

const (
	KeyPetID      = "pet_id"
	KeySpecies    = "species"
	KeyStage      = "stage"
	KeyTier       = "tier"
	KeyScheme     = "scheme"
	KeyRoll       = "roll"
	KeyProgress   = "progress"
	KeyVersion    = "schema_version"
	KeyPath       = "path"
	KeyEvent      = "event"
	KeySubject    = "subject"
	KeyError      = "error"
	KeyDurationMS = "duration_ms"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func PetID(id string) slog.Attr        { return slog.String(KeyPetID, id) }
func Species(id string) slog.Attr      { return slog.String(KeySpecies, id) }
func Stage(s string) slog.Attr         { return slog.String(KeyStage, s) }
func Tier(t int) slog.Attr             { return slog.Int(KeyTier, t) }
func Scheme(s string) slog.Attr        { return slog.String(KeyScheme, s) }
func Roll(r int) slog.Attr             { return slog.Int(KeyRoll, r) }
func Progress(p int) slog.Attr         { return slog.Int(KeyProgress, p) }
func Version(v string) slog.Attr       { return slog.String(KeyVersion, v) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Event(e string) slog.Attr         { return slog.String(KeyEvent, e) }
func Subject(s string) slog.Attr       { return slog.String(KeySubject, s) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
