package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key, err := ObjectKey(" 42 ", "/summary-v2.json")
	require.NoError(t, err)
	assert.Equal(t, "encounters/42/summary-v2.json", key)

	_, err = ObjectKey("", "x.json")
	assert.Error(t, err)
	_, err = ObjectKey("42", "  ")
	assert.Error(t, err)
}

func TestNewS3StoreValidatesConfig(t *testing.T) {
	_, err := NewS3Store(S3Config{})
	assert.Error(t, err)

	_, err = NewS3Store(S3Config{Endpoint: "localhost:9000", Bucket: "triage"})
	assert.Error(t, err)

	_, err = NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.Error(t, err)

	store, err := NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "triage"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", store.region)
}
