package model

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewID returns a 25-character hex identifier derived from a v4 UUID.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:25]
}

// NewOrderNumber mints a human-readable order number of the form
// ORD-<base36 unix milliseconds>-<4 chars of A-Z0-9>. The random suffix keeps
// numbers minted within the same millisecond distinct.
func NewOrderNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
	}
	return "ORD-" + ts + "-" + string(suffix)
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_]+`)
	slugTrim     = regexp.MustCompile(`^-+|-+$`)
)

// Slugify derives a URL-safe slug from a product name.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return slugTrim.ReplaceAllString(s, "")
}
