package outfit

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrBusy               = errors.New("another generation is already in progress")
	ErrNoModel            = errors.New("no model image yet")
	ErrNoHistory          = errors.New("outfit history is empty")
	ErrNothingToUndo      = errors.New("no garment to remove")
	ErrPoseOutOfRange     = errors.New("pose index out of range")
	ErrCredentialRequired = errors.New("an API key must be selected to generate videos")
	ErrNotFound           = errors.New("not found")
	ErrStale              = errors.New("result discarded because the studio changed while it was generating")
)

// credentialError is implemented by gateway errors that mean the selected key is unusable.
type credentialError interface {
	CredentialInvalid() bool
}

func isCredentialError(err error) bool {
	var ce credentialError
	return errors.As(err, &ce) && ce.CredentialInvalid()
}

// friendlyError renders err as the message shown in the studio's error banner.
func friendlyError(action string, err error) string {
	msg := err.Error()
	if strings.Contains(msg, "Unsupported MIME type") {
		mime := ""
		if _, after, ok := strings.Cut(msg, "Unsupported MIME type: "); ok {
			if f := strings.Fields(after); len(f) > 0 {
				mime = f[0]
			}
		}
		if mime != "" {
			return fmt.Sprintf("%s. The file format (%s) is not supported. Please use a PNG, JPEG, or WEBP image.", action, mime)
		}
		return fmt.Sprintf("%s. The file format is not supported. Please use a PNG, JPEG, or WEBP image.", action)
	}
	return fmt.Sprintf("%s. %s", action, capitalize(msg))
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
