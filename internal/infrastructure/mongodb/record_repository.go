package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/Gudang-api/internal/domain/entity"
	"github.com/jhoicas/Gudang-api/internal/domain/repository"
)

const (
	fieldID        = "_id"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
)

var _ repository.RecordRepository = (*RecordRepo)(nil)

// RecordRepo implementación del puerto RecordRepository sobre una colección MongoDB.
type RecordRepo struct {
	client     *Client
	collection *mongo.Collection
	schema     entity.Schema
}

// NewRecordRepository construye el adaptador de persistencia para un esquema.
func NewRecordRepository(client *Client, schema entity.Schema) *RecordRepo {
	return &RecordRepo{
		client:     client,
		collection: client.Collection(schema.Collection),
		schema:     schema,
	}
}

// Count cuenta todos los documentos de la colección.
func (r *RecordRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.schema.Collection, err)
	}
	return n, nil
}

// Find aplica el filtro y pagina con skip/limit en el orden natural de la colección.
func (r *RecordRepo) Find(ctx context.Context, filter repository.Filter, skip, limit int64) ([]*entity.Record, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, BuildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.schema.Collection, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.schema.Collection, err)
	}
	out := make([]*entity.Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, r.toRecord(doc))
	}
	return out, nil
}

// Insert persiste un registro nuevo; el ObjectID y los timestamps se asignan aquí.
func (r *RecordRepo) Insert(ctx context.Context, rec *entity.Record) (*entity.Record, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	oid := primitive.NewObjectID()

	doc := bson.D{{Key: fieldID, Value: oid}}
	doc = append(doc, r.fieldsDoc(rec)...)
	doc = append(doc,
		bson.E{Key: fieldCreatedAt, Value: now},
		bson.E{Key: fieldUpdatedAt, Value: now},
	)
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert %s: %w", r.schema.Collection, err)
	}

	saved := rec.Clone()
	saved.ID = oid.Hex()
	saved.CreatedAt = now
	saved.UpdatedAt = now
	return saved, nil
}

// Replace sobrescribe todos los campos validados ($set); _id, created_at y cualquier
// otro metadato del documento se conservan. Devuelve (nil, nil) si el id no existe.
func (r *RecordRepo) Replace(ctx context.Context, id string, rec *entity.Record) (*entity.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	set := r.fieldsDoc(rec)
	set = append(set, bson.E{Key: fieldUpdatedAt, Value: time.Now().UTC().Truncate(time.Millisecond)})

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc bson.M
	err = r.collection.FindOneAndUpdate(ctx, bson.M{fieldID: oid}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", r.schema.Collection, err)
	}
	return r.toRecord(doc), nil
}

// Delete elimina por _id y devuelve el documento borrado, o (nil, nil) si no existía.
func (r *RecordRepo) Delete(ctx context.Context, id string) (*entity.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc bson.M
	err = r.collection.FindOneAndDelete(ctx, bson.M{fieldID: oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", r.schema.Collection, err)
	}
	return r.toRecord(doc), nil
}

// Ping verifica la conexión del cliente compartido.
func (r *RecordRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// BuildFilter traduce la búsqueda libre a un $or de expresiones regulares
// insensibles a mayúsculas; el término se escapa para buscarlo literalmente.
func BuildFilter(f repository.Filter) bson.M {
	if f.MatchAll() {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Term), Options: "i"}
	or := make(bson.A, 0, len(f.Fields))
	for _, key := range f.Fields {
		or = append(or, bson.M{key: pattern})
	}
	return bson.M{"$or": or}
}

func (r *RecordRepo) fieldsDoc(rec *entity.Record) bson.D {
	doc := make(bson.D, 0, len(r.schema.Fields)+1)
	for _, f := range r.schema.Fields {
		doc = append(doc, bson.E{Key: f.Key, Value: rec.Get(f.Key)})
	}
	return append(doc, bson.E{Key: r.schema.QtyKey, Value: rec.Qty})
}

func (r *RecordRepo) toRecord(doc bson.M) *entity.Record {
	rec := r.schema.NewRecord()
	switch id := doc[fieldID].(type) {
	case primitive.ObjectID:
		rec.ID = id.Hex()
	case string:
		rec.ID = id
	}
	for _, f := range r.schema.Fields {
		if s, ok := doc[f.Key].(string); ok {
			rec.Values[f.Key] = s
		}
	}
	rec.Qty = toInt64(doc[r.schema.QtyKey])
	rec.CreatedAt = toTime(doc[fieldCreatedAt])
	rec.UpdatedAt = toTime(doc[fieldUpdatedAt])
	return rec
}

// toInt64 admite los tipos numéricos con que otros clientes (mongoose) guardan qty.
func toInt64(v any) int64 {
	switch n := v.(type) {
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func toTime(v any) time.Time {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	default:
		return time.Time{}
	}
}
