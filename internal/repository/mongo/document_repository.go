package mongo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/model"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

const opTimeout = 3 * time.Second

var (
	ErrUnknownCollection = errors.New("unknown document collection")
	ErrInvalidID         = errors.New("document id must be a 24-character hex object id")
)

// documentRecord is the slice of a post or message stored by the collaborators
// that this repository decodes.
type documentRecord struct {
	ID    primitive.ObjectID     `bson:"_id"`
	Media []model.MediaReference `bson:"media"`
}

func (r documentRecord) toModel(collection string) model.Document {
	return model.Document{ID: r.ID.Hex(), Collection: collection, Media: r.Media}
}

type DocumentRepository struct {
	db *mongo.Database
}

// compile-time check: *DocumentRepository must satisfy port.DocumentRepository
var _ port.DocumentRepository = (*DocumentRepository)(nil)

func NewDocumentRepository(db *mongo.Database) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) collection(name string) (*mongo.Collection, error) {
	for _, c := range model.DocumentCollections {
		if c == name {
			return r.db.Collection(name), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}

// GetByID returns nil without error when no document has the given id.
func (r *DocumentRepository) GetByID(ctx context.Context, collection, id string) (*model.Document, error) {
	logger.Debugf(ctx, "fetching %s #%s from the database...", collection, id)

	coll, err := r.collection(collection)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var rec documentRecord
	opts := options.FindOne().SetProjection(bson.M{"media": 1})
	if err := coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s %s: %w", collection, id, err)
	}

	doc := rec.toModel(collection)
	return &doc, nil
}

func (r *DocumentRepository) ForEachWithMedia(ctx context.Context, collection string, fn func(model.Document) error) error {
	logger.Infof(ctx, "scanning %s with media...", collection)

	coll, err := r.collection(collection)
	if err != nil {
		return err
	}

	filter := bson.M{"media.0": bson.M{"$exists": true}}
	opts := options.Find().
		SetProjection(bson.M{"media": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("find %s with media: %w", collection, err)
	}
	defer func() { _ = cur.Close(context.Background()) }()

	for cur.Next(ctx) {
		var rec documentRecord
		if err := cur.Decode(&rec); err != nil {
			return fmt.Errorf("decode %s document: %w", collection, err)
		}
		if err := fn(rec.toModel(collection)); err != nil {
			return err
		}
	}
	return cur.Err()
}

// UpdateMediaURLs patches each listed media item by array position. The filter pins
// the public_id found at that position so a concurrently reordered array is not
// written to; such a document reports mongo.ErrNoDocuments.
func (r *DocumentRepository) UpdateMediaURLs(ctx context.Context, collection, id string, fixes []port.MediaURLFix) error {
	logger.Debugf(ctx, "updating %d media urls of %s #%s...", len(fixes), collection, id)

	coll, err := r.collection(collection)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	if len(fixes) == 0 {
		return nil
	}

	filter := bson.M{"_id": oid}
	set := bson.M{}
	for _, f := range fixes {
		if f.Index < 0 {
			return fmt.Errorf("update media of %s %s: negative index %d", collection, id, f.Index)
		}
		field := "media." + strconv.Itoa(f.Index)
		if f.PublicID != "" {
			filter[field+".public_id"] = f.PublicID
		}
		set[field+".url"] = f.URL
		set[field+".secure_url"] = f.URL
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update media of %s %s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update media of %s %s: document missing or media changed: %w", collection, id, mongo.ErrNoDocuments)
	}
	return nil
}
