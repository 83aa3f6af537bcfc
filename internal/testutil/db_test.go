package testutil

import (
	"strings"
	"testing"
)

func TestDBNameFor(t *testing.T) {
	if got := dbNameFor("TestStore/create-one"); got != "lawsite_test_TestStore_create_one" {
		t.Errorf("dbNameFor() = %q", got)
	}
	long := dbNameFor(strings.Repeat("x", 100))
	if len(long) != 63 {
		t.Errorf("len(dbNameFor(long)) = %d, want 63", len(long))
	}
}
