package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interview-alchemist/internal/models"
	"interview-alchemist/internal/repositories"
)

// InterviewRepo stores sessions as documents in one collection
type InterviewRepo struct {
	client     *Client
	collection string
}

var _ repositories.InterviewStore = (*InterviewRepo)(nil)

func NewInterviewRepo(c *Client, collection string) *InterviewRepo {
	if collection == "" {
		collection = "interviews"
	}
	return &InterviewRepo{client: c, collection: collection}
}

func (r *InterviewRepo) col(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.client.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrStoreNotAvailable, err)
	}
	return db.Collection(r.collection), nil
}

// EnsureIndexes creates the listing and stats index
func (r *InterviewRepo) EnsureIndexes(ctx context.Context) error {
	col, err := r.col(ctx)
	if err != nil {
		return err
	}
	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (r *InterviewRepo) Create(ctx context.Context, iv *models.Interview) (*models.Interview, error) {
	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}

	doc := *iv
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *InterviewRepo) Get(ctx context.Context, id string) (*models.Interview, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}

	var iv models.Interview
	if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&iv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &iv, nil
}

func (r *InterviewRepo) List(ctx context.Context, f repositories.ListFilter) ([]models.Interview, int64, error) {
	col, err := r.col(ctx)
	if err != nil {
		return nil, 0, err
	}

	filter := listFilter(f)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(f.Skip()))
	if f.PageSize > 0 {
		opts.SetLimit(int64(f.PageSize))
	}

	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	items := make([]models.Interview, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *InterviewRepo) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	col, err := r.col(ctx)
	if err != nil {
		return err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ApplyAnswer first tries the update that also increments answered, guarded
// on the question still being incomplete. If that matches nothing the answer
// is rewritten without touching the counter.
func (r *InterviewRepo) ApplyAnswer(ctx context.Context, id string, upd repositories.AnswerUpdate, now time.Time) (*models.Interview, bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, false, err
	}
	qid, err := parseID(upd.QuestionID)
	if err != nil {
		return nil, false, repositories.ErrQuestionNotFound
	}
	col, err := r.col(ctx)
	if err != nil {
		return nil, false, err
	}

	set := bson.M{
		"questions.$.answer":    upd.Answer,
		"questions.$.result":    upd.Result,
		"questions.$.completed": true,
		"updatedAt":             now,
	}
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var iv models.Interview
	first := bson.M{
		"_id":       oid,
		"status":    models.StatusPending,
		"questions": bson.M{"$elemMatch": bson.M{"_id": qid, "completed": false}},
	}
	err = col.FindOneAndUpdate(ctx, first, bson.M{"$set": set, "$inc": bson.M{"answered": 1}}, after).Decode(&iv)
	if err == nil {
		return &iv, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	again := bson.M{"_id": oid, "status": models.StatusPending, "questions._id": qid}
	err = col.FindOneAndUpdate(ctx, again, bson.M{"$set": set}, after).Decode(&iv)
	if err == nil {
		return &iv, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}
	return r.diagnoseMiss(ctx, id, upd.QuestionID)
}

// diagnoseMiss explains why a guarded answer update matched nothing
func (r *InterviewRepo) diagnoseMiss(ctx context.Context, id, questionID string) (*models.Interview, bool, error) {
	iv, err := r.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if iv.IsCompleted() {
		return iv, false, repositories.ErrSessionCompleted
	}
	if _, ok := iv.FindQuestion(questionID); !ok {
		return nil, false, repositories.ErrQuestionNotFound
	}
	return nil, false, fmt.Errorf("answer update for %s did not apply", id)
}

func (r *InterviewRepo) UpdateProgress(ctx context.Context, id string, upd repositories.ProgressUpdate, now time.Time) (*models.Interview, bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, false, err
	}
	col, err := r.col(ctx)
	if err != nil {
		return nil, false, err
	}

	set := bson.M{"updatedAt": now}
	if upd.Complete {
		set["status"] = models.StatusCompleted
	}
	update := bson.M{
		"$min": bson.M{"durationLeft": upd.DurationLeft},
		"$set": set,
	}

	var iv models.Interview
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": models.StatusPending},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&iv)
	if err == nil {
		return &iv, upd.Complete, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	// already completed, or gone
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

func (r *InterviewRepo) Stats(ctx context.Context, sr repositories.StatsRange) (*models.InterviewStats, error) {
	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}

	cur, err := col.Aggregate(ctx, statsPipeline(sr))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows statsFacets
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows.toStats(), nil
}

func (r *InterviewRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

func listFilter(f repositories.ListFilter) bson.M {
	filter := bson.M{}
	for field, value := range f.Fields {
		filter[field] = value
	}
	if f.User != "" {
		filter["user"] = f.User
	}
	return filter
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repositories.ErrInvalidID
	}
	return oid, nil
}
