// Package handle normalizes and validates public Telegram usernames
package handle

import (
	"regexp"
	"strings"

	"github.com/horrygame/tg-finding/config"
	lookuperrors "github.com/horrygame/tg-finding/internal/domain/lookup/errors"
)

// DefaultMinLength is the shortest handle accepted when no minimum is configured
const DefaultMinLength = 4

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Handle is a validated username without the leading @
type Handle string

// String returns the handle without decoration
func (h Handle) String() string {
	return string(h)
}

// Mention returns the handle with a leading @
func (h Handle) Mention() string {
	return "@" + string(h)
}

// Normalizer turns raw user input into a Handle
type Normalizer struct {
	minLength int
}

// NewNormalizer creates a Normalizer accepting handles of minLength to 32 characters
func NewNormalizer(minLength int) *Normalizer {
	if minLength < 1 || minLength > config.MaxHandleLength {
		minLength = DefaultMinLength
	}
	return &Normalizer{minLength: minLength}
}

// NewNormalizerFromConfig creates a Normalizer from lookup configuration
func NewNormalizerFromConfig(cfg *config.LookupConfig) *Normalizer {
	return NewNormalizer(cfg.MinHandleLength)
}

// MinLength returns the configured minimum handle length
func (n *Normalizer) MinLength() int {
	return n.minLength
}

// Normalize trims whitespace and one leading @, then validates the rest
func (n *Normalizer) Normalize(raw string) (Handle, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "@")
	s = strings.TrimSpace(s)

	if len(s) < n.minLength || len(s) > config.MaxHandleLength {
		return "", lookuperrors.ErrInvalidHandle
	}
	if !handlePattern.MatchString(s) {
		return "", lookuperrors.ErrInvalidHandle
	}

	return Handle(s), nil
}

// Detect reports whether free text should be treated as an implicit lookup.
// Commands and anything that does not normalize to a valid handle are ignored.
func (n *Normalizer) Detect(text string) (Handle, bool) {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(text, "/") {
		return "", false
	}

	h, err := n.Normalize(text)
	if err != nil {
		return "", false
	}
	return h, true
}
