package commands_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abcchain/abc/app/tooling/admin/commands"
	"github.com/abcchain/abc/foundation/logger"
	"github.com/abcchain/abc/foundation/nodestate"
	"github.com/abcchain/abc/foundation/nodestate/storage/disk"
)

func Test_MigrateAndShow(t *testing.T) {
	log, err := logger.New("TEST")
	if err != nil {
		t.Fatalf("Should be able to construct a logger: %v", err)
	}
	defer log.Sync()

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "abc.json")
	boltPath := filepath.Join(dir, "abc.db")

	d, err := disk.New(jsonPath)
	if err != nil {
		t.Fatalf("Should be able to open the disk record: %v", err)
	}

	state := nodestate.Bootstrap("PK1", nodestate.Defaults{})
	state.Height = 7
	state.LastBlock = "deadbeef"
	data, err := nodestate.Encode(state)
	if err != nil {
		t.Fatalf("Should be able to encode the state: %v", err)
	}
	if err := d.Write(data); err != nil {
		t.Fatalf("Should be able to write the record: %v", err)
	}

	args := []string{"admin", "migrate", "disk", jsonPath, "bolt", boltPath}
	if err := commands.Migrate(args, log); err != nil {
		t.Fatalf("Should be able to migrate the record: %v", err)
	}

	var out bytes.Buffer
	if err := commands.Show([]string{"admin", "show", "bolt", boltPath}, &out); err != nil {
		t.Fatalf("Should be able to show the migrated record: %v", err)
	}

	if out.String() != string(data) {
		t.Logf("got: %s", out.String())
		t.Logf("exp: %s", data)
		t.Fatal("Should get back the same record.")
	}

	err = commands.Show([]string{"admin", "show", "disk", filepath.Join(dir, "missing.json")}, &out)
	if err == nil || !strings.Contains(err.Error(), "no state record") {
		t.Fatalf("Should report a missing record: %v", err)
	}
}
