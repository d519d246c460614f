package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/apigate/pkg/auth"
	"github.com/dmitrymomot/apigate/pkg/validator"
)

const usersCollection = "users"

type oauthLink struct {
	Provider       string `bson:"provider"`
	ProviderUserID string `bson:"provider_user_id"`
}

type userDoc struct {
	ID           string      `bson:"_id"`
	Email        string      `bson:"email"`
	Name         string      `bson:"name,omitempty"`
	Avatar       string      `bson:"avatar,omitempty"`
	AuthMethod   string      `bson:"auth_method"`
	IsVerified   bool        `bson:"is_verified"`
	PasswordHash []byte      `bson:"password_hash,omitempty"`
	OAuth        []oauthLink `bson:"oauth,omitempty"`
	CreatedAt    time.Time   `bson:"created_at"`
}

func (d userDoc) user() (*auth.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("store: corrupt user id %q: %w", d.ID, err)
	}
	return &auth.User{
		ID:         id,
		Email:      d.Email,
		Name:       d.Name,
		Avatar:     d.Avatar,
		AuthMethod: d.AuthMethod,
		IsVerified: d.IsVerified,
		CreatedAt:  d.CreatedAt,
	}, nil
}

// Users persists accounts in MongoDB. It implements auth.PasswordStorage and
// auth.OAuthStorage and provides the uniqueEmail async rule.
type Users struct {
	coll *mongo.Collection
}

var (
	_ auth.PasswordStorage    = (*Users)(nil)
	_ auth.OAuthStorage       = (*Users)(nil)
	_ validator.AsyncRuleFunc = (*Users)(nil).EmailAvailable
)

// NewUsers returns a user store backed by the users collection of db.
func NewUsers(db *mongo.Database) *Users {
	return &Users{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique indexes the store relies on.
func (u *Users) EnsureIndexes(ctx context.Context) error {
	_, err := u.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys: bson.D{{Key: "oauth.provider", Value: 1}, {Key: "oauth.provider_user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("oauth_unique").
				SetPartialFilterExpression(bson.D{{Key: "oauth", Value: bson.D{{Key: "$exists", Value: true}}}}),
		},
	})
	if err != nil {
		return errors.Join(ErrIndexes, err)
	}
	return nil
}

func (u *Users) CreateUser(ctx context.Context, user *auth.User) error {
	_, err := u.coll.InsertOne(ctx, userDoc{
		ID:         user.ID.String(),
		Email:      auth.NormalizeEmail(user.Email),
		Name:       user.Name,
		Avatar:     user.Avatar,
		AuthMethod: user.AuthMethod,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return auth.ErrEmailAlreadyExists
	}
	return err
}

func (u *Users) GetUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return u.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
}

func (u *Users) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	return u.findOne(ctx, bson.D{{Key: "email", Value: auth.NormalizeEmail(email)}})
}

func (u *Users) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res, err := u.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (u *Users) StorePasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error {
	return u.update(ctx, userID, bson.D{{Key: "$set", Value: bson.D{{Key: "password_hash", Value: hash}}}})
}

func (u *Users) GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	var doc userDoc
	err := u.coll.FindOne(ctx, bson.D{{Key: "_id", Value: userID.String()}},
		options.FindOne().SetProjection(bson.D{{Key: "password_hash", Value: 1}})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(doc.PasswordHash) == 0 {
		return nil, ErrNoPassword
	}
	return doc.PasswordHash, nil
}

func (u *Users) StoreOAuthLink(ctx context.Context, userID uuid.UUID, provider, providerUserID string) error {
	return u.update(ctx, userID, bson.D{{Key: "$addToSet", Value: bson.D{{Key: "oauth", Value: oauthLink{
		Provider:       provider,
		ProviderUserID: providerUserID,
	}}}}})
}

func (u *Users) GetUserByOAuth(ctx context.Context, provider, providerUserID string) (*auth.User, error) {
	return u.findOne(ctx, bson.D{{Key: "oauth", Value: bson.D{{Key: "$elemMatch", Value: bson.D{
		{Key: "provider", Value: provider},
		{Key: "provider_user_id", Value: providerUserID},
	}}}}})
}

// EmailAvailable is the uniqueEmail async rule: it passes when no account
// uses the address. Non-string values pass; type and format are the
// concern of other rules.
func (u *Users) EmailAvailable(ctx context.Context, value any, _ validator.Params) (bool, error) {
	email, ok := value.(string)
	if !ok || email == "" {
		return true, nil
	}
	n, err := u.coll.CountDocuments(ctx, bson.D{{Key: "email", Value: auth.NormalizeEmail(email)}},
		options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (u *Users) findOne(ctx context.Context, filter bson.D) (*auth.User, error) {
	var doc userDoc
	err := u.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.user()
}

func (u *Users) update(ctx context.Context, id uuid.UUID, change bson.D) error {
	res, err := u.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id.String()}}, change)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}
