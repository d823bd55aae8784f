package cloudsync

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const snapshotCollection = "ledger_snapshots"

type snapshotDocument struct {
	Key       string    `bson:"_id"`
	Snapshot  string    `bson:"snapshot"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoRemote keeps the snapshot as one document per sync key.
type MongoRemote struct {
	client *mongo.Client
	coll   *mongo.Collection
	key    string
}

var _ Remote = (*MongoRemote)(nil)

// ConnectMongo connects to uri and verifies the server answers.
func ConnectMongo(ctx context.Context, uri, database, key string) (*MongoRemote, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &MongoRemote{
		client: client,
		coll:   client.Database(database).Collection(snapshotCollection),
		key:    key,
	}, nil
}

func (m *MongoRemote) Push(ctx context.Context, snapshot []byte) error {
	_, err := m.coll.UpdateOne(
		ctx,
		bson.M{"_id": m.key},
		bson.M{"$set": bson.M{
			"snapshot":  string(snapshot),
			"updatedAt": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (m *MongoRemote) Pull(ctx context.Context) ([]byte, error) {
	var doc snapshotDocument
	err := m.coll.FindOne(ctx, bson.M{"_id": m.key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc.Snapshot), nil
}

func (m *MongoRemote) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
