package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"cribhub/internal/model"
)

// UsersCollection is the mongo collection holding user documents.
const UsersCollection = "users"

type userDocument struct {
	ID             string    `bson:"_id"`
	Username       string    `bson:"username"`
	PasswordHash   string    `bson:"passwordHash"`
	Gender         string    `bson:"gender"`
	AvatarLink     string    `bson:"avatarLink"`
	CribIDs        []string  `bson:"cribIds"`
	InteractionIDs []string  `bson:"interactionIds"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

func newUserDocument(u *model.User) userDocument {
	return userDocument{
		ID:             u.ID,
		Username:       u.Username,
		PasswordHash:   u.PasswordHash,
		Gender:         string(u.Gender),
		AvatarLink:     u.AvatarLink,
		CribIDs:        []string(u.CribIDs),
		InteractionIDs: []string(u.InteractionIDs),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (d userDocument) toModel() *model.User {
	u := &model.User{
		ID:             d.ID,
		Username:       d.Username,
		PasswordHash:   d.PasswordHash,
		Gender:         model.Gender(d.Gender),
		AvatarLink:     d.AvatarLink,
		CribIDs:        model.StringList(d.CribIDs),
		InteractionIDs: model.StringList(d.InteractionIDs),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	u.EnsureDefaults()
	return u
}

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository builds a repository over the users collection of db.
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(UsersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	user.EnsureDefaults()
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	_, err := r.coll.InsertOne(ctx, newUserDocument(user))
	return translateError(err)
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *mongoUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *mongoUserRepository) List(ctx context.Context) ([]model.User, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, translateError(err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateError(err)
	}
	users := make([]model.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, *d.toModel())
	}
	return users, nil
}

func (r *mongoUserRepository) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}
	if patch.Username != nil {
		set = append(set, bson.E{Key: "username", Value: *patch.Username})
	}
	if patch.PasswordHash != nil {
		set = append(set, bson.E{Key: "passwordHash", Value: *patch.PasswordHash})
	}
	if patch.Gender != nil {
		set = append(set, bson.E{Key: "gender", Value: string(*patch.Gender)})
	}
	if patch.AvatarLink != nil {
		set = append(set, bson.E{Key: "avatarLink", Value: *patch.AvatarLink})
	}

	var doc userDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translateError(err)
	}
	return doc.toModel(), nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translateError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) FindProfiles(ctx context.Context, ids []string) ([]model.UserProfile, error) {
	profiles := []model.UserProfile{}
	if len(ids) == 0 {
		return profiles, nil
	}
	projection := bson.D{{Key: "username", Value: 1}, {Key: "avatarLink", Value: 1}}
	cursor, err := r.coll.Find(ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}},
		options.Find().SetProjection(projection),
	)
	if err != nil {
		return nil, translateError(err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateError(err)
	}
	for _, d := range docs {
		profiles = append(profiles, model.UserProfile{ID: d.ID, Username: d.Username, AvatarLink: d.AvatarLink})
	}
	return profiles, nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.D) (*model.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toModel(), nil
}
