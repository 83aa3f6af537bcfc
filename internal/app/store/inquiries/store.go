// internal/app/store/inquiries/store.go
package inquiries

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/advocatechambers/lawsite/internal/app/store/storeutil"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no inquiry has the requested id.
	ErrNotFound = errors.New("inquiry not found")
	// ErrDuplicateReference is returned when a reference collides.
	ErrDuplicateReference = errors.New("inquiry reference already exists")
)

// Collection is the inquiries collection name.
const Collection = "inquiries"

// Store manages inquiry records.
type Store struct {
	c *mongo.Collection
}

// New creates a new inquiry store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts a new inquiry. Status defaults to pending, Reference to a
// fresh UUID, and timestamps to now.
func (s *Store) Create(ctx context.Context, in models.Inquiry) (models.Inquiry, error) {
	now := time.Now().UTC()
	in.ID = primitive.NewObjectID()
	if in.Reference == "" {
		in.Reference = uuid.NewString()
	}
	if in.Status == "" {
		in.Status = models.InquiryPending
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = models.PaymentPending
	}
	in.FullNameCI = text.Fold(in.FullName)
	in.CreatedAt = now
	in.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, in); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Inquiry{}, ErrDuplicateReference
		}
		return models.Inquiry{}, err
	}
	return in, nil
}

// GetByID returns one inquiry.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Inquiry, error) {
	var inq models.Inquiry
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&inq)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Inquiry{}, ErrNotFound
	}
	return inq, err
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Status   models.InquiryStatus
	Category string
	// Search matches a name prefix (case and diacritic insensitive), an
	// email substring, or an exact reference.
	Search string
	Page   int64
	Limit  int64
}

func (f Filter) query() bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		q["$or"] = []bson.M{
			{"full_name_ci": bson.M{"$regex": "^" + regexp.QuoteMeta(text.Fold(search))}},
			{"email": bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}},
			{"reference": search},
		}
	}
	return q
}

// List returns inquiries matching f, newest first, and the total match count.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Inquiry, int64, error) {
	q := f.query()
	total, err := s.c.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	opts := storeutil.Paginate(f.Limit, f.Page).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []models.Inquiry{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Recent returns the n newest inquiries.
func (s *Store) Recent(ctx context.Context, n int64) ([]models.Inquiry, error) {
	out, _, err := s.List(ctx, Filter{Limit: n, Page: 1})
	return out, err
}

// Advance moves an inquiry to the next status. The update is conditional
// on the status observed, so concurrent advances step one state each.
// changed is false when the inquiry is already closed.
func (s *Store) Advance(ctx context.Context, id primitive.ObjectID) (models.Inquiry, bool, error) {
	for {
		cur, err := s.GetByID(ctx, id)
		if err != nil {
			return models.Inquiry{}, false, err
		}
		next, ok := cur.Status.Next()
		if !ok {
			return cur, false, nil
		}

		now := time.Now().UTC()
		set := bson.M{"status": next, "updated_at": now}
		switch next {
		case models.InquiryResponded:
			set["responded_at"] = now
		case models.InquiryClosed:
			set["closed_at"] = now
		}

		var updated models.Inquiry
		err = s.c.FindOneAndUpdate(ctx,
			bson.M{"_id": id, "status": cur.Status},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Status moved underneath us; re-read and try again.
			continue
		}
		if err != nil {
			return models.Inquiry{}, false, err
		}
		return updated, true, nil
	}
}

// Stats summarizes every inquiry.
type Stats struct {
	Total    int64                          `json:"total"`
	ByStatus map[models.InquiryStatus]int64 `json:"byStatus"`
	// Revenue sums the amounts of inquiries whose payment completed.
	Revenue float64 `json:"revenue"`
}

// Stats aggregates totals, per-status counts and revenue.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$payment_status", string(models.PaymentCompleted)}}},
					"$amount",
					0,
				}},
			}}}},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return Stats{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status  models.InquiryStatus `bson:"_id"`
		Count   int64                `bson:"count"`
		Revenue float64              `bson:"revenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return Stats{}, err
	}

	st := Stats{ByStatus: make(map[models.InquiryStatus]int64, 3)}
	for _, status := range models.AllInquiryStatuses() {
		st.ByStatus[status] = 0
	}
	for _, r := range rows {
		st.ByStatus[r.Status] += r.Count
		st.Total += r.Count
		st.Revenue += r.Revenue
	}
	return st, nil
}

// PendingSince returns pending inquiries created at or after t, oldest first.
func (s *Store) PendingSince(ctx context.Context, t time.Time) ([]models.Inquiry, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"status": models.InquiryPending, "created_at": bson.M{"$gte": t}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Inquiry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories returns the distinct categories that have inquiries.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	vals, err := s.c.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if str, ok := v.(string); ok {
			out = append(out, str)
		}
	}
	return out, nil
}
