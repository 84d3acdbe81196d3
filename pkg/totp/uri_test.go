package totp_test

import (
	"net/url"
	"testing"

	"github.com/dmitrymomot/admin2fa/pkg/totp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProvisioningURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		issuer  string
		account string
		secret  []byte
		want    string
		wantErr error
	}{
		{
			name:    "basic",
			issuer:  "Acme",
			account: "admin@example.com",
			secret:  rfcSecret,
			want:    "otpauth://totp/Acme:admin@example.com?secret=GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ&issuer=Acme&algorithm=SHA1&digits=6&period=30",
		},
		{
			name:    "special characters",
			issuer:  "Test & App",
			account: "test+user@example.com",
			secret:  rfcSecret,
			want:    "otpauth://totp/Test%20&%20App:test+user@example.com?secret=GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ&issuer=Test+%26+App&algorithm=SHA1&digits=6&period=30",
		},
		{name: "missing issuer", issuer: " ", account: "a", secret: rfcSecret, wantErr: totp.ErrMissingIssuer},
		{name: "missing account", issuer: "Acme", account: "", secret: rfcSecret, wantErr: totp.ErrMissingAccountName},
		{name: "colon in account", issuer: "Acme", account: "a:b", secret: rfcSecret, wantErr: totp.ErrInvalidLabel},
		{name: "short secret", issuer: "Acme", account: "a", secret: []byte("short"), wantErr: totp.ErrSecretTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := totp.BuildProvisioningURI(tt.issuer, tt.account, tt.secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildProvisioningURI_RoundTrip(t *testing.T) {
	t.Parallel()

	secret, err := totp.GenerateSecret()
	require.NoError(t, err)

	uri, err := totp.BuildProvisioningURI("Acme Admin", "root", secret)
	require.NoError(t, err)

	u, err := url.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "otpauth", u.Scheme)
	assert.Equal(t, "totp", u.Host)
	assert.Equal(t, "/Acme Admin:root", u.Path)

	q := u.Query()
	assert.Equal(t, "Acme Admin", q.Get("issuer"))
	assert.Equal(t, "SHA1", q.Get("algorithm"))
	assert.Equal(t, "6", q.Get("digits"))
	assert.Equal(t, "30", q.Get("period"))

	decoded, err := totp.DecodeSecret(q.Get("secret"))
	require.NoError(t, err)
	assert.Equal(t, secret, decoded)
}
