package user

import (
	"context"
	"errors"

	"crud-service/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoUserRepository struct {
	db             *database.MongodbDB
	collectionName string
}

func NewMongoUserRepository(db *database.MongodbDB, collectionName string) *MongoUserRepository {
	return &MongoUserRepository{db: db, collectionName: collectionName}
}

func (r *MongoUserRepository) Connect(ctx context.Context) error {
	if err := r.db.Connect(ctx); err != nil {
		return err
	}

	// Test collection access with a trivial read
	coll, err := r.db.Collection(r.collectionName)
	if err == nil {
		err = coll.FindOne(ctx, bson.D{}).Err()
	}
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		_ = r.db.Close(ctx)
		return err
	}

	if err := r.EnsureIndexes(ctx); err != nil {
		_ = r.db.Close(ctx)
		return err
	}
	return nil
}

func (r *MongoUserRepository) Close(ctx context.Context) error {
	return r.db.Close(ctx)
}

// EnsureIndexes creates lookup indexes for the fields the workload filters on.
// userId is not unique since ids restart with the process.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.db.Collection(r.collectionName)
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: FieldUserID, Value: 1}}},
		{Keys: bson.D{{Key: FieldStatus, Value: 1}}},
	})
	return err
}

func (r *MongoUserRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	coll, err := r.db.Collection(r.collectionName)
	if err != nil {
		return 0, storeErr("count", err)
	}
	n, err := coll.CountDocuments(ctx, mongoFilter(filter))
	return n, storeErr("count", err)
}

func (r *MongoUserRepository) Sample(ctx context.Context, filter Filter, limit int64) ([]string, error) {
	coll, err := r.db.Collection(r.collectionName)
	if err != nil {
		return nil, storeErr("sample", err)
	}

	cursor, err := coll.Aggregate(ctx, samplePipeline(filter, limit))
	if err != nil {
		return nil, storeErr("sample", err)
	}
	defer cursor.Close(ctx)

	var refs []struct {
		UserID string `bson:"userId"`
	}
	if err = cursor.All(ctx, &refs); err != nil {
		return nil, storeErr("sample", err)
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.UserID)
	}
	return ids, nil
}

func (r *MongoUserRepository) Insert(ctx context.Context, user *User) error {
	coll, err := r.db.Collection(r.collectionName)
	if err != nil {
		return storeErr("insert", err)
	}
	_, err = coll.InsertOne(ctx, user)
	return storeErr("insert", err)
}

func (r *MongoUserRepository) UpdateFields(ctx context.Context, userID string, fields Fields) (int64, error) {
	coll, err := r.db.Collection(r.collectionName)
	if err != nil {
		return 0, storeErr("update", err)
	}

	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}

	result, err := coll.UpdateOne(ctx, bson.M{FieldUserID: userID}, bson.M{"$set": set})
	if err != nil {
		return 0, storeErr("update", err)
	}
	return result.ModifiedCount, nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, userID string) (int64, error) {
	coll, err := r.db.Collection(r.collectionName)
	if err != nil {
		return 0, storeErr("delete", err)
	}
	result, err := coll.DeleteOne(ctx, bson.M{FieldUserID: userID})
	if err != nil {
		return 0, storeErr("delete", err)
	}
	return result.DeletedCount, nil
}

func mongoFilter(filter Filter) bson.M {
	m := bson.M{}
	if filter.Status != "" {
		m[FieldStatus] = filter.Status
	}
	return m
}

// samplePipeline draws a random subset instead of the first documents in
// natural order, so repeated ticks reach the whole collection.
func samplePipeline(filter Filter, limit int64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: mongoFilter(filter)}},
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: limit}}}},
		{{Key: "$project", Value: bson.D{{Key: "_id", Value: 0}, {Key: FieldUserID, Value: 1}}}},
	}
}
