package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clockio/timetrack-system/internal/core/domain"
)

const collectionSchedules = "work_schedules"

// ScheduleRepository implements ports.ScheduleRepository. One document per
// user per day, enforced by a compound unique index.
type ScheduleRepository struct {
	col *mongo.Collection
}

func NewScheduleRepository(db *mongo.Database) *ScheduleRepository {
	return &ScheduleRepository{col: db.Collection(collectionSchedules)}
}

type mongoSchedule struct {
	UserID     string `bson:"user_id"`
	UserName   string `bson:"user_name,omitempty"`
	DateString string `bson:"date_string"`
	StartTime  string `bson:"start_time"`
	EndTime    string `bson:"end_time"`
	IsOffDay   bool   `bson:"is_off_day"`
}

func (r *ScheduleRepository) Upsert(ctx context.Context, s *domain.WorkSchedule) (*domain.WorkSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"start_time": s.StartTime,
		"end_time":   s.EndTime,
		"is_off_day": s.IsOffDay,
	}
	if s.UserName != "" {
		set["user_name"] = s.UserName
	}

	var ms mongoSchedule
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"user_id": s.UserID, "date_string": s.DateString},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&ms)
	if err != nil {
		return nil, err
	}
	return fromMongoSchedule(ms), nil
}

func (r *ScheduleRepository) ListRange(ctx context.Context, userID, from, to string) ([]*domain.WorkSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"user_id": userID}
	if from != "" && to != "" {
		query["date_string"] = bson.M{"$gte": from, "$lte": to}
	}

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "date_string", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var schedules []*domain.WorkSchedule
	for cur.Next(ctx) {
		var ms mongoSchedule
		if err := cur.Decode(&ms); err != nil {
			return nil, err
		}
		schedules = append(schedules, fromMongoSchedule(ms))
	}
	return schedules, cur.Err()
}

// EnsureIndexes creates the compound unique (user, day) index.
func (r *ScheduleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date_string", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func fromMongoSchedule(ms mongoSchedule) *domain.WorkSchedule {
	return &domain.WorkSchedule{
		UserID:     ms.UserID,
		UserName:   ms.UserName,
		DateString: ms.DateString,
		StartTime:  ms.StartTime,
		EndTime:    ms.EndTime,
		IsOffDay:   ms.IsOffDay,
	}
}
