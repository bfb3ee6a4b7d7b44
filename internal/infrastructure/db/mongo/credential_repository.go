package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clockio/timetrack-system/internal/core/domain"
)

const collectionCredentials = "credentials"

// CredentialRepository implements ports.CredentialRepository on the
// credentials collection, unique on tenant_id.
type CredentialRepository struct {
	col *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{col: db.Collection(collectionCredentials)}
}

type mongoCredential struct {
	TenantID      string    `bson:"tenant_id"`
	LocationToken string    `bson:"location_token,omitempty"`
	AgencyToken   string    `bson:"agency_token,omitempty"`
	UpdatedBy     string    `bson:"updated_by,omitempty"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func (r *CredentialRepository) FindByTenant(ctx context.Context, tenantID string) (*domain.CredentialRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCredential
	err := r.col.FindOne(ctx, bson.M{"tenant_id": tenantID}).Decode(&mc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCredentialsNotFound
		}
		return nil, err
	}

	return &domain.CredentialRecord{
		TenantID:      mc.TenantID,
		LocationToken: mc.LocationToken,
		AgencyToken:   mc.AgencyToken,
		UpdatedBy:     mc.UpdatedBy,
		UpdatedAt:     mc.UpdatedAt,
	}, nil
}

// Upsert merges tokens into the tenant's record. Only non-empty values are
// written, so persisting one token never erases the other.
func (r *CredentialRepository) Upsert(ctx context.Context, tenantID, locationToken, agencyToken, updatedBy string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"updated_by": updatedBy,
		"updated_at": time.Now().UTC(),
	}
	if locationToken != "" {
		set["location_token"] = locationToken
	}
	if agencyToken != "" {
		set["agency_token"] = agencyToken
	}

	_, err := r.col.UpdateOne(ctx,
		bson.M{"tenant_id": tenantID},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	return err
}

// EnsureIndexes creates the unique tenant_id index.
func (r *CredentialRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenant_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
