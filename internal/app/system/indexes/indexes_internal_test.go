package indexes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestKeys(t *testing.T) {
	assert.Equal(t,
		bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
		keys("status", "-created_at"))
}

func TestKeySig(t *testing.T) {
	assert.Equal(t, "status:1, created_at:-1", keySig(keys("status", "-created_at")))
	assert.Empty(t, keySig(nil))
}

func TestHelpers(t *testing.T) {
	u := unique("uniq_x", "x")
	require.NotNil(t, u.Options.Unique)
	assert.True(t, *u.Options.Unique)

	e := ttl("idx_ttl", 24*time.Hour, "last_attempt")
	require.NotNil(t, e.Options.ExpireAfterSeconds)
	assert.EqualValues(t, 86400, *e.Options.ExpireAfterSeconds)
}

func TestIndexSetsAreNamed(t *testing.T) {
	seen := map[string]bool{}
	for _, set := range [][]mongo.IndexModel{
		inquiryIndexes(),
		pageIndexes(),
		oauthStateIndexes(),
		auditLogIndexes(),
		rateLimitIndexes(),
	} {
		for _, m := range set {
			require.NotNil(t, m.Options.Name)
			name := *m.Options.Name
			assert.NotEmpty(t, name)
			assert.False(t, seen[name], "duplicate index name %s", name)
			seen[name] = true
		}
	}
}
