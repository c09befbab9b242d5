package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/planner-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection    = "users"
	tasksCollection    = "tasks"
	notesCollection    = "notes"
	journalsCollection = "journals"
)

// MongoStore is the document-store implementation of Storage. Ids are
// ObjectID hex strings; anything else never resolves.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	now    Clock
}

// ConnectMongo dials uri, verifies the connection and ensures indexes.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := NewMongoStore(client, database, nil)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// NewMongoStore wraps a connected client. A nil clock uses the system time.
func NewMongoStore(client *mongo.Client, database string, clock Clock) *MongoStore {
	if clock == nil {
		clock = systemClock
	}
	return &MongoStore{client: client, db: client.Database(database), now: clock}
}

// EnsureIndexes creates the unique user indexes and the listing indexes.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		tasksCollection:    {{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}}},
		notesCollection:    {{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "updatedAt", Value: -1}}}},
		journalsCollection: {{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}}},
	}
	for coll, specs := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

// BSON documents.

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      string             `bson:"userId"`
	Title       string             `bson:"title"`
	Description *string            `bson:"description"`
	DueDate     *time.Time         `bson:"dueDate"`
	Priority    string             `bson:"priority"`
	Completed   bool               `bson:"completed"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

type noteDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    string             `bson:"userId"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Summary   *string            `bson:"summary"`
	Category  string             `bson:"category"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type journalDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	UserID     string             `bson:"userId"`
	Content    string             `bson:"content"`
	Mood       string             `bson:"mood"`
	Activities *string            `bson:"activities"`
	Date       time.Time          `bson:"date"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

func (d userDoc) model() models.User {
	return models.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

func (d taskDoc) model() models.Task {
	return models.Task{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Priority:    models.Priority(d.Priority),
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt,
	}
}

func (d noteDoc) model() models.Note {
	return models.Note{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Title:     d.Title,
		Content:   d.Content,
		Summary:   d.Summary,
		Category:  d.Category,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d journalDoc) model() models.Journal {
	return models.Journal{
		ID:         d.ID.Hex(),
		UserID:     d.UserID,
		Content:    d.Content,
		Mood:       d.Mood,
		Activities: d.Activities,
		Date:       d.Date,
		CreatedAt:  d.CreatedAt,
	}
}

// Users

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	doc := userDoc{
		ID:           primitive.NewObjectID(),
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    s.stamp(),
	}
	if _, err := s.db.Collection(usersCollection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	*user = doc.model()
	return nil
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, ErrNotFound
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

func (s *MongoStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := decodeOne(s.db.Collection(usersCollection).FindOne(ctx, filter), &doc); err != nil {
		return nil, err
	}
	user := doc.model()
	return &user, nil
}

// Tasks

func (s *MongoStore) GetTasks(ctx context.Context, userID string) ([]models.Task, error) {
	var docs []taskDoc
	if err := s.list(ctx, tasksCollection, userID, "createdAt", &docs); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := make([]models.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.model())
	}
	return tasks, nil
}

func (s *MongoStore) GetTask(ctx context.Context, id string) (*models.Task, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, ErrNotFound
	}
	var doc taskDoc
	if err := decodeOne(s.db.Collection(tasksCollection).FindOne(ctx, bson.M{"_id": oid}), &doc); err != nil {
		return nil, err
	}
	task := doc.model()
	return &task, nil
}

func (s *MongoStore) CreateTask(ctx context.Context, task *models.Task) error {
	task.ApplyDefaults()
	doc := taskDoc{
		ID:          primitive.NewObjectID(),
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     truncateMillis(task.DueDate),
		Priority:    string(task.Priority),
		Completed:   task.Completed,
		CreatedAt:   s.stamp(),
	}
	if _, err := s.db.Collection(tasksCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	*task = doc.model()
	return nil
}

func (s *MongoStore) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.ClearDescription {
		set["description"] = nil
	} else if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.ClearDueDate {
		set["dueDate"] = nil
	} else if patch.DueDate != nil {
		set["dueDate"] = *truncateMillis(patch.DueDate)
	}
	if patch.Priority != nil {
		set["priority"] = string(*patch.Priority)
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}
	if len(set) == 0 {
		return s.GetTask(ctx, id)
	}

	var doc taskDoc
	if err := s.findAndUpdate(ctx, tasksCollection, id, bson.M{"$set": set}, &doc); err != nil {
		return nil, err
	}
	task := doc.model()
	return &task, nil
}

func (s *MongoStore) DeleteTask(ctx context.Context, id string) (bool, error) {
	return s.delete(ctx, tasksCollection, id)
}

// Notes

func (s *MongoStore) GetNotes(ctx context.Context, userID string) ([]models.Note, error) {
	var docs []noteDoc
	if err := s.list(ctx, notesCollection, userID, "updatedAt", &docs); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	notes := make([]models.Note, 0, len(docs))
	for _, d := range docs {
		notes = append(notes, d.model())
	}
	return notes, nil
}

func (s *MongoStore) GetNote(ctx context.Context, id string) (*models.Note, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, ErrNotFound
	}
	var doc noteDoc
	if err := decodeOne(s.db.Collection(notesCollection).FindOne(ctx, bson.M{"_id": oid}), &doc); err != nil {
		return nil, err
	}
	note := doc.model()
	return &note, nil
}

func (s *MongoStore) CreateNote(ctx context.Context, note *models.Note) error {
	note.ApplyDefaults()
	now := s.stamp()
	doc := noteDoc{
		ID:        primitive.NewObjectID(),
		UserID:    note.UserID,
		Title:     note.Title,
		Content:   note.Content,
		Summary:   note.Summary,
		Category:  note.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.db.Collection(notesCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	*note = doc.model()
	return nil
}

func (s *MongoStore) UpdateNote(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error) {
	update := bson.M{"$max": bson.M{"updatedAt": s.stamp()}}

	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Summary != nil {
		set["summary"] = *patch.Summary
	}
	if len(set) > 0 {
		update["$set"] = set
	}

	var doc noteDoc
	if err := s.findAndUpdate(ctx, notesCollection, id, update, &doc); err != nil {
		return nil, err
	}
	note := doc.model()
	return &note, nil
}

func (s *MongoStore) DeleteNote(ctx context.Context, id string) (bool, error) {
	return s.delete(ctx, notesCollection, id)
}

// Journals

func (s *MongoStore) GetJournals(ctx context.Context, userID string) ([]models.Journal, error) {
	var docs []journalDoc
	if err := s.list(ctx, journalsCollection, userID, "date", &docs); err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	journals := make([]models.Journal, 0, len(docs))
	for _, d := range docs {
		journals = append(journals, d.model())
	}
	return journals, nil
}

func (s *MongoStore) GetJournal(ctx context.Context, id string) (*models.Journal, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, ErrNotFound
	}
	var doc journalDoc
	if err := decodeOne(s.db.Collection(journalsCollection).FindOne(ctx, bson.M{"_id": oid}), &doc); err != nil {
		return nil, err
	}
	journal := doc.model()
	return &journal, nil
}

func (s *MongoStore) CreateJournal(ctx context.Context, journal *models.Journal) error {
	journal.CreatedAt = s.stamp()
	journal.ApplyDefaults()
	doc := journalDoc{
		ID:         primitive.NewObjectID(),
		UserID:     journal.UserID,
		Content:    journal.Content,
		Mood:       journal.Mood,
		Activities: journal.Activities,
		Date:       journal.Date.Truncate(time.Millisecond),
		CreatedAt:  journal.CreatedAt,
	}
	if _, err := s.db.Collection(journalsCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	*journal = doc.model()
	return nil
}

func (s *MongoStore) UpdateJournal(ctx context.Context, id string, patch models.JournalPatch) (*models.Journal, error) {
	set := bson.M{}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Mood != nil {
		set["mood"] = *patch.Mood
	}
	if patch.ClearActivities {
		set["activities"] = nil
	} else if patch.Activities != nil {
		set["activities"] = *patch.Activities
	}
	if patch.Date != nil {
		set["date"] = patch.Date.Truncate(time.Millisecond)
	}
	if len(set) == 0 {
		return s.GetJournal(ctx, id)
	}

	var doc journalDoc
	if err := s.findAndUpdate(ctx, journalsCollection, id, bson.M{"$set": set}, &doc); err != nil {
		return nil, err
	}
	journal := doc.model()
	return &journal, nil
}

func (s *MongoStore) DeleteJournal(ctx context.Context, id string) (bool, error) {
	return s.delete(ctx, journalsCollection, id)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// stamp returns the current time at the millisecond precision BSON keeps,
// so the returned record matches what a later read yields.
func (s *MongoStore) stamp() time.Time {
	return s.now().Truncate(time.Millisecond)
}

func (s *MongoStore) list(ctx context.Context, coll, userID, sortField string, out any) error {
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.db.Collection(coll).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func (s *MongoStore) findAndUpdate(ctx context.Context, coll, id string, update bson.M, out any) error {
	oid, ok := objectID(id)
	if !ok {
		return ErrNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := s.db.Collection(coll).FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts)
	if err := decodeOne(res, out); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("update %s: %w", coll, err)
	}
	return nil
}

func (s *MongoStore) delete(ctx context.Context, coll, id string) (bool, error) {
	oid, ok := objectID(id)
	if !ok {
		return false, nil
	}
	res, err := s.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", coll, err)
	}
	return res.DeletedCount > 0, nil
}

func decodeOne(res *mongo.SingleResult, out any) error {
	if err := res.Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func truncateMillis(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.Truncate(time.Millisecond)
	return &v
}

func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
