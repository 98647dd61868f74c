package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func durationPtr(d time.Duration) *Duration {
	v := Duration(d)
	return &v
}

func TestDuration_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *Duration
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "zero", in: durationPtr(0), want: "0s"},
		{name: "hours", in: durationPtr(2 * time.Hour), want: "2h"},
		{name: "minutes", in: durationPtr(90 * time.Minute), want: "90m"},
		{name: "seconds", in: durationPtr(30 * time.Second), want: "30s"},
		{name: "milliseconds", in: durationPtr(1500 * time.Millisecond), want: "1500ms"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, tc.in.String())
		})
	}
}

func TestDuration_TextRoundTrip(t *testing.T) {
	t.Parallel()

	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	require.Equal(t, Duration(90*time.Second), d)

	text, err := d.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "90s", string(text))

	require.Error(t, d.UnmarshalText([]byte("later")))
}

func TestCORSConfigSection_EnableOrDefault(t *testing.T) {
	t.Parallel()

	enabled := true
	var nilSection *CORSConfigSection

	require.True(t, nilSection.EnableOrDefault(true))
	require.False(t, (&CORSConfigSection{}).EnableOrDefault(false))
	require.True(t, (&CORSConfigSection{Enable: &enabled}).EnableOrDefault(false))
}

func TestDaemonConfig_Validate(t *testing.T) {
	t.Parallel()

	addr := "localhost:8090"
	badAddr := "localhost"
	zero := 0

	tests := []struct {
		name     string
		cfg      *DaemonConfig
		wantErrs []string
	}{
		{name: "nil", cfg: nil, wantErrs: []string{"no daemon configuration found"}},
		{name: "empty", cfg: &DaemonConfig{}},
		{
			name: "valid",
			cfg: &DaemonConfig{
				Addr:                &addr,
				ProbeTimeout:        durationPtr(time.Second),
				ForwardTimeout:      durationPtr(2 * time.Second),
				HealthCheckInterval: durationPtr(0),
				CORS:                &CORSConfigSection{Origins: []string{"*", "http://localhost:3000"}},
			},
		},
		{
			name: "forward timeout only compared when both set",
			cfg:  &DaemonConfig{ForwardTimeout: durationPtr(time.Second)},
		},
		{
			name: "collects every error",
			cfg: &DaemonConfig{
				Addr:                 &badAddr,
				ShutdownTimeout:      durationPtr(0),
				DiscoveryConcurrency: &zero,
				CORS:                 &CORSConfigSection{Origins: []string{""}, MaxAge: durationPtr(-time.Second)},
			},
			wantErrs: []string{
				"'addr' (value: 'localhost')",
				"shutdown_timeout must be positive, got 0s",
				"discovery_concurrency must be positive, got 0",
				"CORS origin cannot be empty",
				"CORS max age must be positive",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.cfg.Validate()
			if len(tc.wantErrs) == 0 {
				require.NoError(t, err)
				return
			}
			for _, want := range tc.wantErrs {
				require.ErrorContains(t, err, want)
			}
		})
	}
}
