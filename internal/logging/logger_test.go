package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		level     string
		wantInfo  bool
		wantDebug bool
	}{
		{name: "default hides info", wantInfo: false},
		{name: "debug flag", debug: true, wantInfo: true, wantDebug: true},
		{name: "env info", level: "INFO", wantInfo: true},
		{name: "env overrides debug flag", debug: true, level: "error"},
		{name: "unknown level keeps default", level: "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := newLogger(&buf, tt.debug, tt.level, "")

			log.Info("member registered")
			log.Debug("ledger loaded")

			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("member registered")))
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("ledger loaded")))
		})
	}
}

func TestNewLogger_OmitsTimeOutsideDebug(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false, "info", "").Info("proposal created", "id", 1)

	assert.Equal(t, "level=INFO msg=\"proposal created\" id=1\n", buf.String())
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false, "info", "JSON").Info("proposal finalized", "id", 2, "status", "approved")

	assert.JSONEq(t, `{"level":"INFO","msg":"proposal finalized","id":2,"status":"approved"}`, buf.String())
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/governance/registry.go", shortPath("/home/ci/coop/internal/governance/registry.go"))
	assert.Equal(t, "main.go", shortPath("/tmp/main.go"))
}
