package detector_test

import (
	"os"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/swiftplan/internal/adapters/detector"
)

func getenv(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestDetect(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		vars map[string]string
		want detector.Environment
	}{
		{name: "CI=true", vars: map[string]string{"CI": "true"}, want: detector.Environment{CI: true}},
		{name: "CI=1", vars: map[string]string{"CI": "1"}, want: detector.Environment{CI: true}},
		{name: "CI=false", vars: map[string]string{"CI": "false"}, want: detector.Environment{}},
		{name: "NO_COLOR", vars: map[string]string{"NO_COLOR": "1"}, want: detector.Environment{NoColor: true}},
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, detector.Detect(f, getenv(tt.vars)))
		})
	}
}

func TestDetect_NilFile(t *testing.T) {
	t.Parallel()
	assert.False(t, detector.Detect(nil, getenv(nil)).IsTerminal)
}

func TestEnvironment_ColorProfile(t *testing.T) {
	t.Parallel()
	assert.Equal(t, termenv.Ascii, detector.Environment{}.ColorProfile())
	assert.Equal(t, termenv.ANSI, detector.Environment{CI: true}.ColorProfile())
	assert.Equal(t, termenv.Ascii, detector.Environment{CI: true, NoColor: true}.ColorProfile())
	assert.Equal(t, termenv.Ascii, detector.Environment{IsTerminal: true, NoColor: true}.ColorProfile())
}
