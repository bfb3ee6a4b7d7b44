package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clockio/timetrack-system/internal/core/domain"
	"github.com/clockio/timetrack-system/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository on the users collection,
// unique on external_id.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ExternalID  string    `bson:"external_id"`
	DisplayName string    `bson:"display_name"`
	Email       string    `bson:"email,omitempty"`
	TenantID    string    `bson:"tenant_id,omitempty"`
	Role        string    `bson:"role"`
	IsOwner     bool      `bson:"is_owner"`
	LastSeenAt  time.Time `bson:"last_seen_at"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	err := r.col.FindOne(ctx, bson.M{"external_id": externalID}).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return fromMongoUser(mu), nil
}

func (r *UserRepository) Insert(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		ExternalID:  u.ExternalID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		TenantID:    u.TenantID,
		Role:        u.Role,
		IsOwner:     u.IsOwner,
		LastSeenAt:  u.LastSeenAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return err
	}
	return nil
}

// Update refreshes the identity fields, last-writer-wins. Role is included
// only when the patch carries one; is_owner is never written here.
func (r *UserRepository) Update(ctx context.Context, externalID string, patch ports.UserPatch) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"display_name": patch.DisplayName,
		"email":        patch.Email,
		"tenant_id":    patch.TenantID,
		"last_seen_at": patch.LastSeenAt,
		"updated_at":   time.Now().UTC(),
	}
	if patch.Role != "" {
		set["role"] = patch.Role
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"external_id": externalID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if tenantID != "" {
		filter["tenant_id"] = tenantID
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "display_name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, err
		}
		users = append(users, fromMongoUser(mu))
	}
	return users, cur.Err()
}

func (r *UserRepository) FindOwnerByTenant(ctx context.Context, tenantID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"is_owner": true}
	if tenantID != "" {
		filter["tenant_id"] = tenantID
	}

	var mu mongoUser
	err := r.col.FindOne(ctx, filter).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return fromMongoUser(mu), nil
}

func (r *UserRepository) SetOwnerFlag(ctx context.Context, externalID string, isOwner bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"is_owner": isOwner, "updated_at": time.Now().UTC()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"external_id": externalID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique external_id index plus the tenant and
// owner lookups.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "external_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "is_owner", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func fromMongoUser(mu mongoUser) *domain.User {
	return &domain.User{
		ExternalID:  mu.ExternalID,
		DisplayName: mu.DisplayName,
		Email:       mu.Email,
		TenantID:    mu.TenantID,
		Role:        mu.Role,
		IsOwner:     mu.IsOwner,
		LastSeenAt:  mu.LastSeenAt,
		CreatedAt:   mu.CreatedAt,
		UpdatedAt:   mu.UpdatedAt,
	}
}
