package logger

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/nodebridgetech/misterticket-sub000/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  logrus.Level
	}{
		{name: "debug", level: "debug", want: logrus.DebugLevel},
		{name: "warn", level: "warn", want: logrus.WarnLevel},
		{name: "unparseable falls back to info", level: "shout", want: logrus.InfoLevel},
		{name: "empty falls back to info", level: "", want: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level)
			if log.GetLevel() != tt.want {
				t.Fatalf("expected level %v, got %v", tt.want, log.GetLevel())
			}
		})
	}
}

func TestNew_LevelFromConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	log := New(config.String(config.LogLevel))
	if log.GetLevel() != logrus.ErrorLevel {
		t.Fatalf("expected level from environment, got %v", log.GetLevel())
	}
}
