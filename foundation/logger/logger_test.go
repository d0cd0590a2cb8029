package logger_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/logger"
)

func Test_Logger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")

	log, err := logger.New("NODE", path)
	if err != nil {
		t.Fatalf("Should be able to construct a logger: %v", err)
	}

	log.Infow("startup", "status", "started")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Should be able to read the log: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("Should write json entries: %v", err)
	}

	if entry["service"] != "NODE" || entry["msg"] != "startup" || entry["status"] != "started" {
		t.Fatalf("Should carry the service and fields: %v", entry)
	}
}
