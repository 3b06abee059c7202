package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JCWilliams12/TaskTrack/internal/models"
)

// sortFields maps the accepted sortBy values to their stored field names.
var sortFields = map[string]string{
	"createdAt": "created_at",
	"dueDate":   "due_date",
	"priority":  "priority",
	"title":     "title",
}

type MongoTaskStore struct {
	col *mongo.Collection
}

func NewMongoTaskStore(db *mongo.Database) *MongoTaskStore {
	return &MongoTaskStore{col: db.Collection("tasks")}
}

// ownerFilter is the mandatory scope every task query starts from.
func ownerFilter(ownerID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	return bson.M{"user_id": oid}, nil
}

func taskFilter(ownerID, taskID string) (bson.M, error) {
	filter, err := ownerFilter(ownerID)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		// An id that cannot exist matches nothing.
		return nil, ErrTaskNotFound
	}
	filter["_id"] = oid
	return filter, nil
}

func (s *MongoTaskStore) List(ctx context.Context, ownerID string, f ListFilter) ([]models.Task, error) {
	filter, err := ownerFilter(ownerID)
	if err != nil {
		return nil, err
	}
	if models.ValidStatus(f.Status) {
		filter["status"] = f.Status
	}
	if models.ValidPriority(f.Priority) {
		filter["priority"] = f.Priority
	}

	field, ok := sortFields[f.SortBy]
	if !ok {
		field = "created_at"
	}
	order := -1
	if f.SortOrder == "asc" {
		order = 1
	}

	cursor, err := s.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: field, Value: order}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *MongoTaskStore) Get(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	filter, err := taskFilter(ownerID, taskID)
	if err != nil {
		return nil, err
	}
	var task models.Task
	err = s.col.FindOne(ctx, filter).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *MongoTaskStore) Create(ctx context.Context, ownerID string, task models.Task) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	applyTaskDefaults(&task)
	now := time.Now().UTC()
	task.ID = primitive.NilObjectID
	task.UserID = oid
	task.CreatedAt = now
	task.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, task)
	if err != nil {
		return nil, err
	}
	task.ID = res.InsertedID.(primitive.ObjectID)
	return &task, nil
}

func (s *MongoTaskStore) Update(ctx context.Context, ownerID, taskID string, u TaskUpdate) (*models.Task, error) {
	filter, err := taskFilter(ownerID, taskID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.Priority != nil {
		set["priority"] = *u.Priority
	}
	update := bson.M{"$set": set}
	if u.ClearDueDate {
		update["$unset"] = bson.M{"due_date": ""}
	} else if u.DueDate != nil {
		set["due_date"] = *u.DueDate
	}

	// Single atomic document operation, not read-then-write.
	var task models.Task
	err = s.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *MongoTaskStore) Delete(ctx context.Context, ownerID, taskID string) error {
	filter, err := taskFilter(ownerID, taskID)
	if err != nil {
		return err
	}
	res, err := s.col.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *MongoTaskStore) Stats(ctx context.Context, ownerID string) (*models.TaskStats, error) {
	filter, err := ownerFilter(ownerID)
	if err != nil {
		return nil, err
	}

	group := func(field string) bson.A {
		return bson.A{bson.M{"$group": bson.M{
			"_id":   "$" + field,
			"count": bson.M{"$sum": 1},
		}}}
	}
	cursor, err := s.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$facet", Value: bson.M{
			"status":   group("status"),
			"priority": group("priority"),
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var facets []struct {
		Status []struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
		} `bson:"status"`
		Priority []struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
		} `bson:"priority"`
	}
	if err := cursor.All(ctx, &facets); err != nil {
		return nil, err
	}

	stats := newStats()
	if len(facets) == 0 {
		return stats, nil
	}
	for _, b := range facets[0].Status {
		stats.StatusBreakdown[b.ID] = b.Count
		stats.TotalTasks += b.Count
	}
	for _, b := range facets[0].Priority {
		stats.PriorityBreakdown[b.ID] = b.Count
	}
	stats.CompletionRate = completionRate(stats.StatusBreakdown[models.StatusCompleted], stats.TotalTasks)
	return stats, nil
}
