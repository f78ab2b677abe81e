package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
	"github.com/campanha-inteligente/ideas-wall/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ideaDoc — документ коллекции ideas. Имена полей совпадают с таблицей-зеркалом,
// чтобы данные можно было сверять руками.
type ideaDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AuthorID  string             `bson:"author_id"`
	Author    string             `bson:"author"`
	PhotoURL  string             `bson:"photo_url,omitempty"`
	Email     string             `bson:"email,omitempty"`
	City      string             `bson:"city"`
	Idea      string             `bson:"idea"`
	Likes     int                `bson:"likes"`
	LikedBy   []string           `bson:"liked_by"`
	Comments  []commentDoc       `bson:"comments"`
	CreatedAt time.Time          `bson:"created_at"`
	Version   int64              `bson:"version"`
}

type commentDoc struct {
	ID        int64        `bson:"id"`
	AuthorID  string       `bson:"author_id,omitempty"`
	Author    string       `bson:"author"`
	Text      string       `bson:"text"`
	CreatedAt time.Time    `bson:"time"`
	Replies   []commentDoc `bson:"replies"`
}

// MongoDB DateTime хранит миллисекунды.
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

func toCommentDocs(level []models.Comment) []commentDoc {
	out := make([]commentDoc, 0, len(level))
	for _, c := range level {
		out = append(out, commentDoc{
			ID:        c.ID,
			AuthorID:  c.AuthorID,
			Author:    c.AuthorName,
			Text:      c.Body,
			CreatedAt: toMS(c.CreatedAt),
			Replies:   toCommentDocs(c.Replies),
		})
	}

	return out
}

func fromCommentDocs(level []commentDoc) []models.Comment {
	out := make([]models.Comment, 0, len(level))
	for _, d := range level {
		out = append(out, models.Comment{
			ID:         d.ID,
			AuthorID:   d.AuthorID,
			AuthorName: d.Author,
			Body:       d.Text,
			CreatedAt:  d.CreatedAt.UTC(),
			Replies:    fromCommentDocs(d.Replies),
		})
	}

	return out
}

func (d ideaDoc) toModel() models.Idea {
	likedBy := d.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}

	return models.Idea{
		ID:           d.ID.Hex(),
		AuthorID:     d.AuthorID,
		AuthorName:   d.Author,
		AuthorAvatar: d.PhotoURL,
		AuthorEmail:  d.Email,
		Location:     d.City,
		Body:         d.Idea,
		LikeCount:    len(likedBy),
		LikedBy:      likedBy,
		Comments:     fromCommentDocs(d.Comments),
		CreatedAt:    d.CreatedAt.UTC(),
		Version:      d.Version,
	}
}

// CreateIdea вставляет документ; ID, created_at и version назначаются здесь.
func (m *Mongo) CreateIdea(ctx context.Context, idea models.Idea) (*models.Idea, error) {
	const op = "storage/mongo/CreateIdea"

	likedBy := idea.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}

	doc := ideaDoc{
		AuthorID:  idea.AuthorID,
		Author:    idea.AuthorName,
		PhotoURL:  idea.AuthorAvatar,
		Email:     idea.AuthorEmail,
		City:      idea.Location,
		Idea:      idea.Body,
		Likes:     len(likedBy),
		LikedBy:   likedBy,
		Comments:  toCommentDocs(idea.Comments),
		CreatedAt: toMS(time.Now()),
		Version:   1,
	}

	res, err := m.ideas.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	doc.ID = oid
	out := doc.toModel()

	return &out, nil
}

// Ideas возвращает все идеи (created_at DESC — порядок индекса, сервис всё равно сортирует сам).
func (m *Mongo) Ideas(ctx context.Context) ([]models.Idea, error) {
	const op = "storage/mongo/Ideas"

	cur, err := m.ideas.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := []models.Idea{}
	for cur.Next(ctx) {
		var doc ideaDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		items = append(items, doc.toModel())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// IdeaByID возвращает идею. Некорректный формат id трактуется как «нет такой записи».
func (m *Mongo) IdeaByID(ctx context.Context, id string) (*models.Idea, error) {
	const op = "storage/mongo/IdeaByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc ideaDoc
	if err := m.ideas.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()
	return &out, nil
}

// UpdateIdea — compare-and-set по полю version.
// Поля из upd заменяются целиком ($set), likes пересчитывается из liked_by.
func (m *Mongo) UpdateIdea(ctx context.Context, id string, expectedVersion int64, upd models.IdeaUpdate) (*models.Idea, error) {
	const op = "storage/mongo/UpdateIdea"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	set := bson.D{}
	if upd.LikedBy != nil {
		likedBy := *upd.LikedBy
		if likedBy == nil {
			likedBy = []string{}
		}

		set = append(set,
			bson.E{Key: "liked_by", Value: likedBy},
			bson.E{Key: "likes", Value: len(likedBy)},
		)
	}

	if upd.Comments != nil {
		set = append(set, bson.E{Key: "comments", Value: toCommentDocs(*upd.Comments)})
	}

	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}}}
	if len(set) > 0 {
		update = append(update, bson.E{Key: "$set", Value: set})
	}

	filter := bson.D{
		{Key: "_id", Value: oid},
		{Key: "version", Value: expectedVersion},
	}

	var doc ideaDoc
	err = m.ideas.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)

	if err == nil {
		out := doc.toModel()
		return &out, nil
	}

	if !errors.Is(err, mongodriver.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Ничего не совпало: либо документа нет, либо его версия уже другая.
	n, cerr := m.ideas.CountDocuments(ctx, bson.D{{Key: "_id", Value: oid}})
	if cerr != nil {
		return nil, fmt.Errorf("%s: count: %w", op, cerr)
	}

	if n == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
}

// DeleteIdea удаляет документ целиком (без мягкого удаления).
func (m *Mongo) DeleteIdea(ctx context.Context, id string) error {
	const op = "storage/mongo/DeleteIdea"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := m.ideas.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
