package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"cribhub/internal/model"
)

// CribsCollection is the mongo collection holding crib documents. Members and messages are
// embedded in the crib document.
const CribsCollection = "cribs"

type messageDocument struct {
	UserID   string    `bson:"userId"`
	Message  string    `bson:"message"`
	DateTime time.Time `bson:"dateTime"`
}

type cribDocument struct {
	ID        string            `bson:"_id"`
	Name      string            `bson:"name"`
	Key       string            `bson:"key"`
	MemberIDs []string          `bson:"memberIds"`
	Messages  []messageDocument `bson:"messages"`
	CreatedAt time.Time         `bson:"createdAt"`
	UpdatedAt time.Time         `bson:"updatedAt"`
}

func newMessageDocument(m model.Message) messageDocument {
	return messageDocument{UserID: m.AuthorID, Message: m.Body, DateTime: m.SentAt}
}

func (d messageDocument) toModel(cribID string, seq int) model.Message {
	return model.Message{Seq: uint(seq + 1), CribID: cribID, AuthorID: d.UserID, Body: d.Message, SentAt: d.DateTime}
}

func (d cribDocument) messages() []model.Message {
	out := make([]model.Message, 0, len(d.Messages))
	for i, m := range d.Messages {
		out = append(out, m.toModel(d.ID, i))
	}
	return out
}

func (d cribDocument) memberIDs() []string {
	if d.MemberIDs == nil {
		return []string{}
	}
	return d.MemberIDs
}

func (d cribDocument) toModel() *model.Crib {
	return &model.Crib{
		ID:        d.ID,
		Name:      d.Name,
		Key:       d.Key,
		MemberIDs: d.memberIDs(),
		Messages:  d.messages(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type mongoCribRepository struct {
	coll *mongo.Collection
}

// NewMongoCribRepository builds a repository over the cribs collection of db.
func NewMongoCribRepository(db *mongo.Database) CribRepository {
	return &mongoCribRepository{coll: db.Collection(CribsCollection)}
}

func (r *mongoCribRepository) Create(ctx context.Context, crib *model.Crib) error {
	crib.EnsureDefaults()
	crib.MemberIDs = model.DistinctIDs(crib.MemberIDs)
	now := time.Now().UTC()
	crib.CreatedAt, crib.UpdatedAt = now, now

	doc := cribDocument{
		ID:        crib.ID,
		Name:      crib.Name,
		Key:       crib.Key,
		MemberIDs: crib.MemberIDs,
		Messages:  []messageDocument{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, m := range crib.Messages {
		doc.Messages = append(doc.Messages, newMessageDocument(m))
	}
	_, err := r.coll.InsertOne(ctx, doc)
	return translateError(err)
}

func (r *mongoCribRepository) FindByID(ctx context.Context, id string) (*model.Crib, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *mongoCribRepository) FindByName(ctx context.Context, name string) (*model.Crib, error) {
	return r.findOne(ctx, bson.D{{Key: "name", Value: name}})
}

func (r *mongoCribRepository) FindByNameAndKey(ctx context.Context, name, key string) (*model.Crib, error) {
	return r.findOne(ctx, bson.D{{Key: "name", Value: name}, {Key: "key", Value: key}})
}

func (r *mongoCribRepository) List(ctx context.Context) ([]model.Crib, error) {
	return r.find(ctx, bson.D{})
}

func (r *mongoCribRepository) ListByMember(ctx context.Context, userID string) ([]model.Crib, error) {
	return r.find(ctx, bson.D{{Key: "memberIds", Value: userID}})
}

func (r *mongoCribRepository) Update(ctx context.Context, id string, patch model.CribPatch) (*model.Crib, error) {
	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name})
	}
	if patch.Key != nil {
		set = append(set, bson.E{Key: "key", Value: *patch.Key})
	}
	doc, err := r.findOneAndUpdate(ctx, id, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *mongoCribRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translateError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoCribRepository) AddMembers(ctx context.Context, id string, userIDs []string) ([]string, error) {
	update := bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: "memberIds", Value: bson.D{{Key: "$each", Value: model.DistinctIDs(userIDs)}}}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
	}
	doc, err := r.findOneAndUpdate(ctx, id, update)
	if err != nil {
		return nil, err
	}
	return doc.memberIDs(), nil
}

func (r *mongoCribRepository) RemoveMember(ctx context.Context, id string, userID string) ([]string, error) {
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "memberIds", Value: userID}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
	}
	doc, err := r.findOneAndUpdate(ctx, id, update)
	if err != nil {
		return nil, err
	}
	return doc.memberIDs(), nil
}

func (r *mongoCribRepository) AppendMessage(ctx context.Context, id string, msg model.Message) ([]model.Message, error) {
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "messages", Value: newMessageDocument(msg)}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
	}
	doc, err := r.findOneAndUpdate(ctx, id, update)
	if err != nil {
		return nil, err
	}
	return doc.messages(), nil
}

func (r *mongoCribRepository) findOne(ctx context.Context, filter bson.D) (*model.Crib, error) {
	var doc cribDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toModel(), nil
}

func (r *mongoCribRepository) find(ctx context.Context, filter bson.D) ([]model.Crib, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, translateError(err)
	}
	var docs []cribDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateError(err)
	}
	cribs := make([]model.Crib, 0, len(docs))
	for _, d := range docs {
		cribs = append(cribs, *d.toModel())
	}
	return cribs, nil
}

func (r *mongoCribRepository) findOneAndUpdate(ctx context.Context, id string, update bson.D) (*cribDocument, error) {
	var doc cribDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translateError(err)
	}
	return &doc, nil
}
