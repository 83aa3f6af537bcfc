package indexes_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/advocatechambers/lawsite/internal/app/system/indexes"
	"github.com/advocatechambers/lawsite/internal/testutil"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t) // already ran EnsureAll once
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("second EnsureAll() error = %v", err)
	}

	cur, err := db.Collection("inquiries").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	var specs []bson.M
	if err := cur.All(ctx, &specs); err != nil {
		t.Fatalf("decode indexes: %v", err)
	}

	found := false
	for _, s := range specs {
		if s["name"] == "uniq_inquiries_reference" {
			found = true
			if s["unique"] != true {
				t.Error("reference index is not unique")
			}
		}
	}
	if !found {
		t.Errorf("uniq_inquiries_reference missing from %v", specs)
	}
}
