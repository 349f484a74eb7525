package listener

import (
	"io"
	"os"
	"testing"

	"rebind/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.Init(logging.LevelError, io.Discard)
	os.Exit(m.Run())
}
