// Package redact strips credentials from strings before they are logged or
// printed. It targets what the storage backends can leak in error messages:
// passwords embedded in database URLs and key=value connection strings.
package redact

import (
	"regexp"
)

// RedactedCredentialPlaceholder replaces every redacted secret.
const RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"

var (
	// scheme://user:password@ keeps the scheme and user.
	urlPasswordRegex = regexp.MustCompile(`(?i)\b([a-z][a-z0-9+.-]*://[^:/@\s]*):[^@\s]*@`)

	// password=secret or password: 'secret' as found in DSNs and driver errors.
	passwordRegex = regexp.MustCompile(`(?i)\b(password|passwd|pwd)(\s*[=:]\s*)('[^']*'|"[^"]*"|[^\s&;'"]+)`)
)

// String redacts credentials from input.
func String(input string) string {
	if input == "" {
		return input
	}

	result := urlPasswordRegex.ReplaceAllString(input, "${1}:"+RedactedCredentialPlaceholder+"@")
	return passwordRegex.ReplaceAllString(result, "${1}${2}"+RedactedCredentialPlaceholder)
}

// Error redacts credentials from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
