package testutil

import (
	"os"
	"testing"
)

const (
	// EnvMongoURI must be set for the integration suite to run; it names the
	// MongoDB deployment the tests may freely write to and wipe. Transactions
	// require a replica set, so a standalone mongod will not do.
	EnvMongoURI = "TEST_MONGO_URI"
	EnvDBName   = "TEST_DB_NAME"

	DefaultDatabaseName = "rently_test"
)

type TestEnv struct {
	MongoURI     string
	DatabaseName string
}

// NewTestEnv reads the integration test environment, skipping the calling
// test when no test database is configured.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	mongoURI := os.Getenv(EnvMongoURI)
	if mongoURI == "" {
		t.Skipf("%s not set, skipping integration tests", EnvMongoURI)
	}

	return &TestEnv{
		MongoURI:     mongoURI,
		DatabaseName: getEnv(EnvDBName, DefaultDatabaseName),
	}
}

// Setup connects to the test database and wipes it so every run starts clean.
func (e *TestEnv) Setup(t *testing.T) *MongoHelper {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)
	return mongo
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
