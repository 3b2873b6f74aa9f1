package domain

import (
	"testing"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfileKind(t *testing.T) {
	tests := []struct {
		input   string
		want    ProfileKind
		wantErr bool
	}{
		{input: "development", want: KindDevelopment},
		{input: "dev", want: KindDevelopment},
		{input: "AppStore", want: KindAppStore},
		{input: "app-store", want: KindAppStore},
		{input: "adhoc", want: KindAdHoc},
		{input: "Ad-Hoc", want: KindAdHoc},
		{input: "inhouse", want: KindInHouse},
		{input: "enterprise", want: KindInHouse},
		{input: " development ", want: KindDevelopment},
		{input: "bogus", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProfileKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfileKindPolicies(t *testing.T) {
	assert.True(t, KindDevelopment.SupportsDevices())
	assert.True(t, KindAdHoc.SupportsDevices())
	assert.False(t, KindAppStore.SupportsDevices())
	assert.False(t, KindInHouse.SupportsDevices())

	assert.Equal(t, "Development", KindDevelopment.PrettyName())
	assert.Equal(t, "AppStore", KindAppStore.PrettyName())
	assert.Equal(t, "AdHoc", KindAdHoc.PrettyName())
	assert.Equal(t, "InHouse", KindInHouse.PrettyName())
}

func TestProfileKindDecodeHook(t *testing.T) {
	type settings struct {
		Kind ProfileKind `mapstructure:"kind"`
	}

	var decoded settings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: ProfileKindDecodeHook(),
		Result:     &decoded,
	})
	require.NoError(t, err)

	require.NoError(t, decoder.Decode(map[string]interface{}{"kind": "app-store"}))
	assert.Equal(t, KindAppStore, decoded.Kind)

	decoder, err = mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: ProfileKindDecodeHook(),
		Result:     &decoded,
	})
	require.NoError(t, err)
	assert.Error(t, decoder.Decode(map[string]interface{}{"kind": "bogus"}))
}

func TestProfileExpiry(t *testing.T) {
	profile := &Profile{Expires: time.Now().Add(24 * time.Hour)}
	assert.False(t, profile.Expired())
	assert.True(t, profile.ExpiresWithin(48*time.Hour))
	assert.False(t, profile.ExpiresWithin(time.Hour))

	profile.Expires = time.Now().Add(-time.Hour)
	assert.True(t, profile.Expired())

	// Zero expiry means the portal did not report one; treat as not expired.
	profile.Expires = time.Time{}
	assert.False(t, profile.Expired())
	assert.False(t, profile.ExpiresWithin(time.Hour))
}

func TestCertificateExpired(t *testing.T) {
	cert := Certificate{Expires: time.Now().Add(-time.Minute)}
	assert.True(t, cert.Expired())

	cert.Expires = time.Now().Add(time.Hour)
	assert.False(t, cert.Expired())
}
