package credstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostgresStore_InvalidTableName(t *testing.T) {
	for _, name := range []string{"", "1table", "creds; DROP TABLE x", "a-b", "schema.table"} {
		_, err := NewPostgresStore(context.Background(), nil, WithTableName(name))
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "invalid table name")
	}
}

func TestNewPostgresStore_NilPool(t *testing.T) {
	_, err := NewPostgresStore(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool is required")
}

func TestNewMongoStore_InvalidCollectionName(t *testing.T) {
	for _, name := range []string{"", "$cmd", "a.b", "9lives"} {
		_, err := NewMongoStore(context.Background(), nil, WithCollectionName(name))
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "invalid collection name")
	}
}

func TestNewMongoStore_NilDatabase(t *testing.T) {
	_, err := NewMongoStore(context.Background(), nil, WithCollectionName("licenses"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is required")
}

func TestValidIdentifier(t *testing.T) {
	for _, name := range []string{"monetized_credentials", "_x", "Creds2"} {
		assert.True(t, validIdentifier.MatchString(name), name)
	}
}

func TestStoresImplementStore(t *testing.T) {
	var _ Store = (*PostgresStore)(nil)
	var _ Store = (*MongoStore)(nil)
}

func TestPut_RequiresName(t *testing.T) {
	_, err := (&PostgresStore{}).Put(context.Background(), Credential{Tier: "pro"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = (&MongoStore{}).Put(context.Background(), Credential{Tier: "pro"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
