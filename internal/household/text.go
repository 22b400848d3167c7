package household

import (
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/hearth/internal/store"
)

// Text typed by users enters the household in Unicode normalization form C,
// so in-memory state and every backend hold the same bytes for "Käse"
// whether it was typed precomposed or decomposed.

func nfc(s string) string {
	return norm.NFC.String(s)
}

func nfcAll(ss []string) []string {
	if ss == nil {
		return nil
	}
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = nfc(s)
	}
	return out
}

// nfcPatch returns a copy of patch with string values normalized.
func nfcPatch(patch store.Patch) store.Patch {
	out := make(store.Patch, len(patch))
	for k, v := range patch {
		switch val := v.(type) {
		case string:
			out[k] = nfc(val)
		case []string:
			out[k] = nfcAll(val)
		default:
			out[k] = v
		}
	}
	return out
}
