// Package statskey derives the cache keys under which a user's previous
// performance for an exercise configuration is stored. The keying scheme
// changed three times over the app's life; BuildKey produces the current
// canonical key and LegacyVariants enumerates every key an older revision
// could have written, so pre-existing cache entries stay reachable.
package statskey

import (
	"strings"

	"github.com/meltforce/terrapump/internal/models"
)

// noAttachment is the key component used when a cable exercise has no
// attachment selected.
const noAttachment = "noattach"

// Slugify lowercases s and collapses every run of non-alphanumeric
// characters to a single underscore, trimming leading and trailing ones.
func Slugify(s string) string {
	return slugifyWith(s, '_')
}

func slugifyWith(s string, sep byte) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range strings.ToLower(s) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			if pending && b.Len() > 0 {
				b.WriteByte(sep)
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// BuildKey computes the canonical stats key for an exercise configuration.
//
//   - Cable: "{slug(exercise)}--{slug(attachment)}", with "noattach" when no
//     attachment is selected. An attachment named "none" counts as absent.
//   - Machine and plate-loaded with a known brand: "{slug(brand)}--{slug(exercise)}".
//   - Everything else: the plain exercise slug.
func BuildKey(t models.EquipmentType, exercise, brand, attachment string) string {
	slug := Slugify(exercise)
	switch {
	case t == models.EquipmentCable:
		att := noAttachment
		if attachment != "" && !strings.EqualFold(attachment, "none") {
			att = Slugify(attachment)
		}
		return slug + "--" + att
	case t.UsesBrand() && brand != "":
		return Slugify(brand) + "--" + slug
	default:
		return slug
	}
}

// keyInput carries the slug building blocks for one exercise configuration.
type keyInput struct {
	// exercise slug in underscore and hyphen styles.
	exercise [2]string
	// brand slug variants (underscore and hyphen styles of both the display
	// name and the raw catalog id), empty when no brand applies.
	brands []string
}

// keyScheme generates the keys one historical keying era wrote. New eras
// append a generator here instead of editing the enumeration by hand.
type keyScheme func(in keyInput) []string

// legacySchemes lists the keying eras in the order lookups probe them:
// plain exercise slug, slug with a trailing --noattach, and brand-prefixed
// keys using either the brand display name or its catalog id.
var legacySchemes = []keyScheme{
	func(in keyInput) []string {
		return []string{in.exercise[0], in.exercise[1]}
	},
	func(in keyInput) []string {
		return []string{
			in.exercise[0] + "--" + noAttachment,
			in.exercise[1] + "--" + noAttachment,
		}
	},
	func(in keyInput) []string {
		var keys []string
		for _, brand := range in.brands {
			for _, ex := range in.exercise {
				keys = append(keys, brand+"--"+ex)
			}
		}
		return keys
	},
}

// LegacyVariants enumerates, in probe order, every key an older keying
// scheme could have stored this configuration under. brandName is the
// display name (possibly already title-cased) and brandID the raw catalog
// id; historical records used both. The result is deduplicated,
// order-preserving, and contains no empty strings.
func LegacyVariants(t models.EquipmentType, exercise, brandName, brandID string) []string {
	in := keyInput{
		exercise: [2]string{slugifyWith(exercise, '_'), slugifyWith(exercise, '-')},
	}
	if t.UsesBrand() {
		for _, b := range []string{brandName, brandID} {
			if b == "" {
				continue
			}
			in.brands = append(in.brands, slugifyWith(b, '_'), slugifyWith(b, '-'))
		}
	}

	var variants []string
	for _, scheme := range legacySchemes {
		variants = append(variants, scheme(in)...)
	}
	return dedup(variants)
}

// CandidateKeys returns the canonical key followed by the legacy variants,
// deduplicated. Lookups try the keys in order and stop at the first hit;
// no hit means no history exists and type/catalog defaults apply.
func CandidateKeys(t models.EquipmentType, exercise, brandName, brandID, attachment string) []string {
	keys := append(
		[]string{BuildKey(t, exercise, brandName, attachment)},
		LegacyVariants(t, exercise, brandName, brandID)...,
	)
	return dedup(keys)
}

func dedup(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
