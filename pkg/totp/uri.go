package totp

import (
	"net/url"
	"strconv"
	"strings"
)

// BuildProvisioningURI creates the otpauth key URI scanned by authenticator apps.
// See https://github.com/google/google-authenticator/wiki/Key-Uri-Format
//
// Parameters are emitted in a fixed order:
//
//	otpauth://totp/{issuer}:{account}?secret=...&issuer=...&algorithm=SHA1&digits=6&period=30
func BuildProvisioningURI(issuer, accountName string, secret []byte) (string, error) {
	issuer = strings.TrimSpace(issuer)
	accountName = strings.TrimSpace(accountName)
	switch {
	case issuer == "":
		return "", ErrMissingIssuer
	case accountName == "":
		return "", ErrMissingAccountName
	case strings.Contains(issuer, ":") || strings.Contains(accountName, ":"):
		return "", ErrInvalidLabel
	case len(secret) < SecretSize:
		return "", ErrSecretTooShort
	}

	var b strings.Builder
	b.WriteString("otpauth://totp/")
	b.WriteString(url.PathEscape(issuer))
	b.WriteByte(':')
	b.WriteString(url.PathEscape(accountName))
	b.WriteString("?secret=")
	b.WriteString(EncodeSecret(secret))
	b.WriteString("&issuer=")
	b.WriteString(url.QueryEscape(issuer))
	b.WriteString("&algorithm=")
	b.WriteString(Algorithm)
	b.WriteString("&digits=")
	b.WriteString(strconv.Itoa(Digits))
	b.WriteString("&period=")
	b.WriteString(strconv.Itoa(int(DefaultPeriod.Seconds())))
	return b.String(), nil
}
