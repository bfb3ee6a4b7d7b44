package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clockio/timetrack-system/internal/core/domain"
	"github.com/clockio/timetrack-system/internal/core/ports"
)

const collectionTimeLogs = "time_logs"

// TimeLogRepository implements ports.TimeLogRepository.
type TimeLogRepository struct {
	col *mongo.Collection
}

func NewTimeLogRepository(db *mongo.Database) *TimeLogRepository {
	return &TimeLogRepository{col: db.Collection(collectionTimeLogs)}
}

type mongoTimeLog struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          string             `bson:"user_id"`
	UserName        string             `bson:"user_name,omitempty"`
	Email           string             `bson:"email,omitempty"`
	CheckIn         time.Time          `bson:"check_in"`
	CheckOut        *time.Time         `bson:"check_out,omitempty"`
	DurationMinutes int                `bson:"duration_minutes,omitempty"`
	Description     string             `bson:"description,omitempty"`
	DateString      string             `bson:"date_string"`
	IsActive        bool               `bson:"is_active"`
	AutoStopped     bool               `bson:"auto_stopped,omitempty"`
	WarningMessage  string             `bson:"warning_message,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func (r *TimeLogRepository) Insert(ctx context.Context, log *domain.TimeLog) (*domain.TimeLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoTimeLog{
		UserID:     log.UserID,
		UserName:   log.UserName,
		Email:      log.Email,
		CheckIn:    log.CheckIn,
		DateString: log.DateString,
		IsActive:   log.IsActive,
		CreatedAt:  log.CreatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}

	created := *log
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// FindActiveByUser returns the user's open session, or (nil, nil) when no
// session is active.
func (r *TimeLogRepository) FindActiveByUser(ctx context.Context, userID string) (*domain.TimeLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ml mongoTimeLog
	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "is_active": true}).Decode(&ml)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return fromMongoTimeLog(ml), nil
}

func (r *TimeLogRepository) FindStaleActive(ctx context.Context, today string) ([]*domain.TimeLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{
		"is_active":   true,
		"date_string": bson.M{"$ne": today},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeTimeLogs(ctx, cur)
}

func (r *TimeLogRepository) Close(ctx context.Context, id string, patch ports.ClosePatch) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrLogNotFound
	}

	set := bson.M{
		"check_out":        patch.CheckOut,
		"duration_minutes": patch.DurationMinutes,
		"is_active":        false,
	}
	if patch.Description != "" {
		set["description"] = patch.Description
	}
	if patch.AutoStopped {
		set["auto_stopped"] = true
		set["warning_message"] = patch.WarningMessage
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrLogNotFound
	}
	return nil
}

func (r *TimeLogRepository) List(ctx context.Context, filter ports.TimeLogFilter) ([]*domain.TimeLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.DateString != "" {
		query["date_string"] = filter.DateString
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeTimeLogs(ctx, cur)
}

func (r *TimeLogRepository) UpdateByID(ctx context.Context, id string, patch ports.TimeLogPatch) (*domain.TimeLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrLogNotFound
	}

	set := bson.M{}
	if patch.CheckIn != nil {
		set["check_in"] = *patch.CheckIn
	}
	if patch.CheckOut != nil {
		set["check_out"] = *patch.CheckOut
	}
	if patch.DurationMinutes != nil {
		set["duration_minutes"] = *patch.DurationMinutes
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if len(set) == 0 {
		return nil, domain.ErrLogNotFound
	}

	var ml mongoTimeLog
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ml)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLogNotFound
		}
		return nil, err
	}
	return fromMongoTimeLog(ml), nil
}

func (r *TimeLogRepository) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrLogNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrLogNotFound
	}
	return nil
}

func (r *TimeLogRepository) FindByDateRange(ctx context.Context, from, to string) ([]*domain.TimeLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{
		"date_string": bson.M{"$gte": from, "$lte": to},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeTimeLogs(ctx, cur)
}

// EnsureIndexes creates the lookup indexes for sessions.
func (r *TimeLogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_active", Value: 1}}},
		{Keys: bson.D{{Key: "date_string", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func decodeTimeLogs(ctx context.Context, cur *mongo.Cursor) ([]*domain.TimeLog, error) {
	var logs []*domain.TimeLog
	for cur.Next(ctx) {
		var ml mongoTimeLog
		if err := cur.Decode(&ml); err != nil {
			return nil, err
		}
		logs = append(logs, fromMongoTimeLog(ml))
	}
	return logs, cur.Err()
}

func fromMongoTimeLog(ml mongoTimeLog) *domain.TimeLog {
	return &domain.TimeLog{
		ID:              ml.ID.Hex(),
		UserID:          ml.UserID,
		UserName:        ml.UserName,
		Email:           ml.Email,
		CheckIn:         ml.CheckIn,
		CheckOut:        ml.CheckOut,
		DurationMinutes: ml.DurationMinutes,
		Description:     ml.Description,
		DateString:      ml.DateString,
		IsActive:        ml.IsActive,
		AutoStopped:     ml.AutoStopped,
		WarningMessage:  ml.WarningMessage,
		CreatedAt:       ml.CreatedAt,
	}
}
