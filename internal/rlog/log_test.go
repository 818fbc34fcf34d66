package rlog

import "testing"

func TestSetModeGatesLowerSeverity(t *testing.T) {
	defer SetMode(InfoMode)
	SetMode(ErrorMode)
	// Debugf/Infof below ErrorMode must not panic and must be no-ops; there is no
	// observable side effect to assert against stdoutLogger beyond "does not crash".
	Debugf("should not be emitted")
	Infof("should not be emitted")
	Errorf("emitted: %d", 1)
}

func TestConfigureNilUsesStdout(t *testing.T) {
	Configure(nil)
	if _, ok := backend.(stdoutLogger); !ok {
		t.Errorf("expected stdoutLogger backend for nil config, got %T", backend)
	}
}

func TestConfigureWithLogfileUsesFileBackend(t *testing.T) {
	defer Configure(nil)
	Configure(&Config{Logfile: "/tmp/ragengine-test.log", MaxSize: 1, MaxAge: 1})
	if _, ok := backend.(fileLogger); !ok {
		t.Errorf("expected fileLogger backend, got %T", backend)
	}
}
