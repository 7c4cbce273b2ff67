package user

import (
	"context"
	"testing"

	"crud-service/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSamplePipeline(t *testing.T) {
	pipeline := samplePipeline(Filter{Status: StatusActive}, 10)
	require.Len(t, pipeline, 3)

	assert.Equal(t, "$match", pipeline[0][0].Key)
	assert.Equal(t, bson.M{FieldStatus: StatusActive}, pipeline[0][0].Value)

	assert.Equal(t, "$sample", pipeline[1][0].Key)
	assert.Equal(t, bson.D{{Key: "size", Value: int64(10)}}, pipeline[1][0].Value)

	assert.Equal(t, "$project", pipeline[2][0].Key)
}

func TestMongoFilterMatchesEverythingByDefault(t *testing.T) {
	assert.Empty(t, mongoFilter(Filter{}))
}

func TestMongoCallsFailBeforeConnect(t *testing.T) {
	repo := NewMongoUserRepository(&database.MongodbDB{}, "systemusers")

	_, err := repo.Delete(context.Background(), "user2000")

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "delete", storeErr.Op)
	assert.ErrorIs(t, err, database.ErrNotConnected)
}
