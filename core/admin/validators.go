package admin

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/kjboard/board/core"
)

var (
	// password policy
	pwdMinLen      = 8
	pwdMinLenText  = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)
	pwdNoSpaceText = "password must not contain whitespace"
	pwdMaxSim      = .7
	pwdAttrSimText = "password cannot be similar to the username"
)

// ValidatePassword applies the password policy to a new password:
// - minLen: 8
// - no whitespace
// - no username similarity
func ValidatePassword(pwd, username string) error {
	reportErr := func(text string) error {
		return core.NewValidationError(nil, core.FieldError{Field: "newPassword", Error: text})
	}

	if len([]rune(pwd)) < pwdMinLen {
		return reportErr(pwdMinLenText)
	}
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			return reportErr(pwdNoSpaceText)
		}
	}
	if username != "" {
		ratio := difflib.NewMatcher(
			strings.Split(strings.ToLower(pwd), ""),
			strings.Split(strings.ToLower(username), ""),
		).QuickRatio()
		if ratio >= pwdMaxSim {
			return reportErr(pwdAttrSimText)
		}
	}
	return nil
}
