package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"noteflow/model"
	"noteflow/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{MongoCollection: db.Collection("users")}
}

// AddUser inserts a new user record, stamping a generated user ID and both
// timestamps.
func (r *UserRepo) AddUser(ctx context.Context, user *model.User) error {
	if user.Email == "" && user.Phone == "" {
		return errors.New("user needs an email or a phone")
	}

	now := time.Now().UTC()
	if user.UserID == "" {
		user.UserID = utils.GenerateUserID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.MongoCollection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// FindByEmail looks a user up by exact email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByPhone looks a user up by exact phone number.
func (r *UserRepo) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

// FindByIdentity resolves the user record behind an identity. The lookup
// order is a contract: email first, then phone, first match wins. A
// dual-identity user therefore always resolves through their email.
func (r *UserRepo) FindByIdentity(ctx context.Context, id model.Identity) (*model.User, error) {
	lookups := []struct {
		field string
		value string
	}{
		{"email", id.Email},
		{"phone", id.Phone},
	}

	for _, l := range lookups {
		if l.value == "" {
			continue
		}
		user, err := r.findOne(ctx, bson.M{l.field: l.value})
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
	}
	return nil, ErrUserNotFound
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := r.MongoCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
