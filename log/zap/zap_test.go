package zap

import (
	"errors"
	"io"
	"testing"

	"github.com/unkn0wn-root/itfaker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := ZapLogger{L: zap.New(core)}

	l.Info("name catalog loaded", itfaker.Fields{"male": 3, "female": 4})
	l.Error("name catalog load failed", itfaker.Fields{"err": errors.New("boom")})
	l.Debug("no fields", nil)

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("entries = %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["male"] != int64(3) || ctx["female"] != int64(4) {
		t.Fatalf("fields = %v", ctx)
	}
	if entries[1].Level != zapcore.ErrorLevel || entries[1].ContextMap()["err"] != "boom" {
		t.Fatalf("error entry = %+v", entries[1])
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud", io.Discard); err == nil {
		t.Fatalf("expected error")
	}
	l, err := New("warn", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if l.L.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info must be disabled at warn")
	}
}
