package node

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	uuidPattern  = regexp.MustCompile(`^([\w\d]{8,}|--[\w\d]{4,}--)$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	fidPattern   = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
)

// IsValidUUID reports whether s matches the node identifier format.
func IsValidUUID(s string) bool { return uuidPattern.MatchString(s) }

// IsValidEmail reports whether s is a standard-form email address.
func IsValidEmail(s string) bool { return emailPattern.MatchString(s) }

// IsValidFid reports whether s is an acceptable friendly id.
func IsValidFid(s string) bool { return fidPattern.MatchString(s) }

// NewUUID mints a fresh node uuid. A real UUIDv4 contains hyphens, which
// the node identifier grammar reserves for the `--slug--` singleton form,
// so NewUUID strips them and every generated identifier satisfies
// IsValidUUID.
func NewUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// FidPrefix is the synthetic addressing form recognised by
// NodeService.Get.
const FidPrefix = "--fid--"

// IsFidAddress reports whether id is of the form "--fid--<fid>" and
// returns the bare fid.
func IsFidAddress(id string) (string, bool) {
	if strings.HasPrefix(id, FidPrefix) {
		return strings.TrimPrefix(id, FidPrefix), true
	}
	return "", false
}

// Slugify lowercases and dashifies a title into a candidate fid. It does
// not guarantee uniqueness; NodeService disambiguates on collision.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "n"
	}
	return s
}
